package service

import (
	"context"

	"github.com/roomloop/roomloop/internal/hub"
)

// ChatService orchestrates the join, message, relay and disconnect flows.
// One method call corresponds to one inbound transport event; calls for a
// single connection arrive serially from its read loop.
type ChatService interface {
	HandleJoin(ctx context.Context, c *hub.Client, username, room string) error
	HandleSendMessage(ctx context.Context, c *hub.Client, text string) error
	HandlePrivateMessage(ctx context.Context, c *hub.Client, to, text string) error
	HandleTyping(ctx context.Context, c *hub.Client) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}
