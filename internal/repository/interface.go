package repository

import (
	"context"
	"errors"

	"github.com/roomloop/roomloop/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoomNotFound = errors.New("room not found")
)

// UserRepository is the durable store for user identity records.
type UserRepository interface {
	// Upsert creates the user on first use and returns the stored record.
	Upsert(ctx context.Context, username string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// RoomRepository is the durable store for room identity records.
type RoomRepository interface {
	// Upsert creates the room on first use and returns the stored record.
	Upsert(ctx context.Context, name string) (*domain.Room, error)
	GetByName(ctx context.Context, name string) (*domain.Room, error)
	// ListWithMessages returns every room with its full history embedded.
	ListWithMessages(ctx context.Context) ([]domain.RoomWithMessages, error)
}

// MessageRepository is the durable, append-only log of chat messages.
type MessageRepository interface {
	Append(ctx context.Context, userID, roomID, text string) (*domain.ChatMessage, error)
	// RecentByRoom returns the most recent limit messages for a room, ordered
	// oldest to newest.
	RecentByRoom(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
}
