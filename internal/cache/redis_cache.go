package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roomloop/roomloop/internal/config"
	"github.com/roomloop/roomloop/internal/domain"
)

// RedisHistoryCache keeps one redis list per room, newest message at the
// head, trimmed to the window size.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
	window int
}

func NewRedisHistoryCache(cfg config.RedisConfig, window int) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisHistoryCache{
		client: client,
		prefix: cfg.CachePrefix,
		window: window,
	}, nil
}

func (c *RedisHistoryCache) keyFor(roomID string) string {
	return fmt.Sprintf("%s:room:%s", c.prefix, roomID)
}

func (c *RedisHistoryCache) Recent(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	items, err := c.client.LRange(ctx, c.keyFor(roomID), 0, int64(c.window-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history window: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCacheMiss
	}

	// Head of the list is the newest message; flip to oldest-first.
	messages := make([]domain.ChatMessage, len(items))
	for i, item := range items {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached message: %w", err)
		}
		messages[len(items)-1-i] = msg
	}
	return messages, nil
}

func (c *RedisHistoryCache) Prime(ctx context.Context, roomID string, messages []domain.ChatMessage) error {
	key := c.keyFor(roomID)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, msg := range messages { // oldest first, so the newest ends at the head
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		pipe.LPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, 0, int64(c.window-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to prime history window: %w", err)
	}
	return nil
}

func (c *RedisHistoryCache) Push(ctx context.Context, roomID string, message domain.ChatMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// LPUSHX, not LPUSH: an absent key must stay a miss. A plain push would
	// start a one-entry window that the next join replays as if it were the
	// whole recent history; leaving the key absent sends that join back to
	// the store, which reprimes the full window.
	key := c.keyFor(roomID)
	pipe := c.client.TxPipeline()
	pipe.LPushX(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(c.window-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push to history window: %w", err)
	}
	return nil
}

func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
