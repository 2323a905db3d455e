package cache

import (
	"context"
	"errors"

	"github.com/roomloop/roomloop/internal/domain"
)

// ErrCacheMiss is returned when a room has no cached history window.
var ErrCacheMiss = errors.New("cache miss")

// HistoryCache holds the recent-message window per room so join replay does
// not hit the store on every join. Strictly an accelerator: any failure
// degrades to the message repository.
type HistoryCache interface {
	// Recent returns the cached window for a room, oldest to newest.
	Recent(ctx context.Context, roomID string) ([]domain.ChatMessage, error)
	// Prime replaces the cached window with messages (oldest to newest).
	Prime(ctx context.Context, roomID string, messages []domain.ChatMessage) error
	// Push appends a newly written message to an existing window, evicting
	// the oldest entry beyond the window size. Pushing to a room with no
	// cached window is a no-op; the window is rebuilt by the next Prime.
	Push(ctx context.Context, roomID string, message domain.ChatMessage) error
	Close() error
}
