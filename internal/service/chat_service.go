package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roomloop/roomloop/internal/cache"
	"github.com/roomloop/roomloop/internal/domain"
	"github.com/roomloop/roomloop/internal/hub"
	"github.com/roomloop/roomloop/internal/registry"
	"github.com/roomloop/roomloop/internal/repository"
	"github.com/roomloop/roomloop/pkg/log"
)

// ErrValidation rejects a join with an empty username or room.
var ErrValidation = errors.New("username and room must be non-empty")

type chatService struct {
	hub      *hub.Hub
	registry registry.SessionRegistry
	users    repository.UserRepository
	rooms    repository.RoomRepository
	messages repository.MessageRepository
	history  cache.HistoryCache // optional, nil disables caching
	limit    int                // history window replayed on join
}

func NewChatService(
	h *hub.Hub,
	reg registry.SessionRegistry,
	users repository.UserRepository,
	rooms repository.RoomRepository,
	messages repository.MessageRepository,
	history cache.HistoryCache,
	historyLimit int,
) ChatService {
	return &chatService{
		hub:      h,
		registry: reg,
		users:    users,
		rooms:    rooms,
		messages: messages,
		history:  history,
		limit:    historyLimit,
	}
}

// HandleJoin binds the connection to (username, room), announces the join to
// the room and replays recent history to the joiner only. A store failure
// aborts before anything is bound or broadcast.
func (s *chatService) HandleJoin(ctx context.Context, c *hub.Client, username, room string) error {
	// Trimming is for the emptiness check only; names are bound and
	// persisted verbatim.
	if strings.TrimSpace(username) == "" || strings.TrimSpace(room) == "" {
		c.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "username and room are required"))
		return ErrValidation
	}

	if _, err := s.users.Upsert(ctx, username); err != nil {
		return fmt.Errorf("failed to upsert user %q: %w", username, err)
	}
	roomRec, err := s.rooms.Upsert(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to upsert room %q: %w", room, err)
	}

	// Re-join moves the connection between rooms. The old room gets no leave
	// notice; the original behaves the same way.
	if prev, ok := s.registry.Lookup(c.ID); ok && prev.Room != room {
		s.hub.LeaveRoom(c, prev.Room)
	}
	s.hub.JoinRoom(c, room)
	s.registry.Bind(c.ID, username, room)

	s.hub.Broadcast(room, domain.NewSystemMessage(username, "joined"))

	messages, err := s.recentHistory(ctx, roomRec.ID)
	if err != nil {
		// The join itself stands; the joiner just gets no replay.
		l := log.Ctx(ctx)
		l.Error().Err(err).
			Str(log.FieldConnID, c.ID).
			Str(log.FieldRoom, room).
			Msg("failed to load history for join replay")
		return nil
	}

	return c.SendEvent(&domain.MessageHistoryEvent{
		Type:     domain.MsgTypeMessageHistory,
		Messages: messages,
	})
}

// HandleSendMessage persists the message and fans it out to the sender's
// room. A connection with no session is a silent drop; a failed append skips
// the broadcast so nothing undurable is ever shown.
func (s *chatService) HandleSendMessage(ctx context.Context, c *hub.Client, text string) error {
	sess, ok := s.registry.Lookup(c.ID)
	if !ok {
		return nil
	}

	// The store stays authoritative; the session only carries names.
	user, err := s.users.GetByUsername(ctx, sess.Username)
	if err != nil {
		return fmt.Errorf("failed to resolve user %q: %w", sess.Username, err)
	}
	roomRec, err := s.rooms.GetByName(ctx, sess.Room)
	if err != nil {
		return fmt.Errorf("failed to resolve room %q: %w", sess.Room, err)
	}

	msg, err := s.messages.Append(ctx, user.ID, roomRec.ID, text)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if s.history != nil {
		if err := s.history.Push(ctx, roomRec.ID, *msg); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRoom, sess.Room).Msg("history cache push failed")
		}
	}

	return s.hub.Broadcast(sess.Room, &domain.MessageEvent{
		Type:     domain.MsgTypeMessage,
		Username: sess.Username,
		Text:     text,
	})
}

// HandlePrivateMessage relays text to one connection by its raw ID. No
// session lookup, no persistence; an unknown target is a silent drop.
func (s *chatService) HandlePrivateMessage(ctx context.Context, c *hub.Client, to, text string) error {
	return s.hub.SendToConn(to, &domain.PrivateMessageOut{
		Type: domain.MsgTypePrivateMessage,
		From: c.ID,
		Text: text,
	})
}

// HandleTyping rebroadcasts the typer's session to their room. No-op without
// a session; never persisted.
func (s *chatService) HandleTyping(ctx context.Context, c *hub.Client) error {
	sess, ok := s.registry.Lookup(c.ID)
	if !ok {
		return nil
	}

	return s.hub.Broadcast(sess.Room, &domain.TypingEvent{
		Type:     domain.MsgTypeTyping,
		Username: sess.Username,
		Room:     sess.Room,
	})
}

// HandleDisconnect unbinds the session and announces the departure. A
// disconnect before any join is a silent no-op.
func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	sess, ok := s.registry.Unbind(c.ID)
	if !ok {
		return nil
	}

	s.hub.LeaveRoom(c, sess.Room)
	return s.hub.Broadcast(sess.Room, domain.NewSystemMessage(sess.Username, "left"))
}

// recentHistory reads the replay window from the cache when possible, falling
// back to the store and priming the cache on a miss.
func (s *chatService) recentHistory(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	if s.history != nil {
		messages, err := s.history.Recent(ctx, roomID)
		if err == nil {
			return messages, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("history cache read failed")
		}
	}

	messages, err := s.messages.RecentByRoom(ctx, roomID, s.limit)
	if err != nil {
		return nil, err
	}

	if s.history != nil && len(messages) > 0 {
		if err := s.history.Prime(ctx, roomID, messages); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("history cache prime failed")
		}
	}
	return messages, nil
}
