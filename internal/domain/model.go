package domain

import (
	"time"
)

// UserModel is the GORM model for the users table. Users are created lazily
// on first join and never deleted.
type UserModel struct {
	ID        string    `gorm:"type:varchar(27);primaryKey"`
	Username  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID        string         `gorm:"type:varchar(27);primaryKey"`
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	Messages  []MessageModel `gorm:"foreignKey:RoomID"`
}

func (RoomModel) TableName() string {
	return "rooms"
}

// MessageModel is the GORM model for the messages table. Rows are append-only
// and immutable; ordering within a room is by CreatedAt (ksuid IDs break ties).
type MessageModel struct {
	ID        string    `gorm:"type:varchar(27);primaryKey"`
	UserID    string    `gorm:"type:varchar(27);index;not null"`
	RoomID    string    `gorm:"type:varchar(27);index;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (MessageModel) TableName() string {
	return "messages"
}

// User is the domain view of a user record.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *UserModel) ToDomain() *User {
	return &User{
		ID:        m.ID,
		Username:  m.Username,
		CreatedAt: m.CreatedAt,
	}
}

// Room is the domain view of a room record.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *RoomModel) ToDomain() *Room {
	return &Room{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// ChatMessage is the domain view of one persisted chat line.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoomID    string    `json:"room_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *MessageModel) ToDomain() ChatMessage {
	return ChatMessage{
		ID:        m.ID,
		UserID:    m.UserID,
		RoomID:    m.RoomID,
		Text:      m.Text,
		Timestamp: m.CreatedAt,
	}
}

// RoomWithMessages is the reporting view of a room with its full history
// embedded.
type RoomWithMessages struct {
	Room
	Messages []ChatMessage `json:"messages"`
}
