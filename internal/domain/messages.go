package domain

import "fmt"

// WebSocket event types from client.
const (
	MsgTypeJoin           = "join"
	MsgTypeSendMessage    = "sendMessage"
	MsgTypePrivateMessage = "privateMessage"
	MsgTypeTyping         = "typing"
)

// WebSocket event types to client.
const (
	MsgTypeMessage        = "message"
	MsgTypeMessageHistory = "messageHistory"
	MsgTypeError          = "error"
)

// SystemUsername is the sender of join/leave notices.
const SystemUsername = "System"

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server events

type JoinEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

type SendMessageEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type PrivateMessageEvent struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// typing carries no payload beyond its type.

// Server -> Client events

// MessageEvent is a room-scoped chat line. Username is SystemUsername for
// join/leave notices.
type MessageEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// MessageHistoryEvent replays recent room history to a joining connection.
type MessageHistoryEvent struct {
	Type     string        `json:"type"`
	Messages []ChatMessage `json:"messages"`
}

// PrivateMessageOut is delivered to a single connection. From is the raw
// connection ID of the sender.
type PrivateMessageOut struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

// TypingEvent rebroadcasts the typer's session to their room.
type TypingEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}

// NewSystemMessage builds the "<user> has joined/left the room" notice.
func NewSystemMessage(username, verb string) *MessageEvent {
	return &MessageEvent{
		Type:     MsgTypeMessage,
		Username: SystemUsername,
		Text:     fmt.Sprintf("%s has %s the room", username, verb),
	}
}
