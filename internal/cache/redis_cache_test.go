package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomloop/roomloop/internal/config"
	"github.com/roomloop/roomloop/internal/domain"
)

func newTestCache(t *testing.T, window int) *RedisHistoryCache {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := NewRedisHistoryCache(config.RedisConfig{
		Address:     mr.Addr(),
		CachePrefix: "chat:history",
	}, window)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func cachedMessage(i int) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        fmt.Sprintf("msg-%02d", i),
		UserID:    "u_alice",
		RoomID:    "r_lobby",
		Text:      fmt.Sprintf("hello %d", i),
		Timestamp: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
	}
}

func TestRecentAbsentKeyIsMiss(t *testing.T) {
	cache := newTestCache(t, 10)

	_, err := cache.Recent(context.Background(), "r_lobby")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPrimeThenRecentKeepsOrder(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()

	messages := []domain.ChatMessage{cachedMessage(0), cachedMessage(1), cachedMessage(2)}
	require.NoError(t, cache.Prime(ctx, "r_lobby", messages))

	got, err := cache.Recent(ctx, "r_lobby")
	require.NoError(t, err)
	assert.Equal(t, messages, got)
}

func TestPrimeTrimsToWindow(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()

	messages := make([]domain.ChatMessage, 15)
	for i := range messages {
		messages[i] = cachedMessage(i)
	}
	require.NoError(t, cache.Prime(ctx, "r_lobby", messages))

	got, err := cache.Recent(ctx, "r_lobby")
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "msg-05", got[0].ID)
	assert.Equal(t, "msg-14", got[9].ID)
}

func TestPushEvictsOldest(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()

	messages := make([]domain.ChatMessage, 10)
	for i := range messages {
		messages[i] = cachedMessage(i)
	}
	require.NoError(t, cache.Prime(ctx, "r_lobby", messages))
	require.NoError(t, cache.Push(ctx, "r_lobby", cachedMessage(10)))

	got, err := cache.Recent(ctx, "r_lobby")
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "msg-01", got[0].ID)
	assert.Equal(t, "msg-10", got[9].ID)
}

// A push must never start a window on its own: replaying a fresh one-entry
// list as "recent history" would hide everything older. The key stays
// absent until the next Prime rebuilds the full window from the store.
func TestPushWithoutWindowStaysMiss(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()

	require.NoError(t, cache.Push(ctx, "r_lobby", cachedMessage(0)))

	_, err := cache.Recent(ctx, "r_lobby")
	assert.ErrorIs(t, err, ErrCacheMiss)

	messages := make([]domain.ChatMessage, 10)
	for i := range messages {
		messages[i] = cachedMessage(i)
	}
	require.NoError(t, cache.Prime(ctx, "r_lobby", messages))

	got, err := cache.Recent(ctx, "r_lobby")
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestRoomsAreIsolated(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()

	require.NoError(t, cache.Prime(ctx, "r_lobby", []domain.ChatMessage{cachedMessage(0)}))

	_, err := cache.Recent(ctx, "r_games")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
