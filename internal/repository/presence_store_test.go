package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func TestMemoryPresenceStoreMarkAndCount(t *testing.T) {
	store := NewMemoryPresenceStore(0).(*memoryPresenceStore)
	clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	store.now = clock.Now

	assertPresenceLifecycle(t, store, clock)
}

func TestRedisPresenceStoreMarkAndCount(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	store := NewRedisPresenceStore(client, 0).(*redisPresenceStore)
	clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	store.now = clock.Now

	assertPresenceLifecycle(t, store, clock)
}

func assertPresenceLifecycle(t *testing.T, store PresenceStore, clock *fakeClock) {
	t.Helper()
	ctx := context.Background()

	count, err := store.Count(ctx, "1")
	require.NoError(t, err)
	require.Zero(t, count, "unknown pages have no presence")

	require.NoError(t, store.Mark(ctx, "a", "1", true))
	require.NoError(t, store.Mark(ctx, "b", "1", true))
	require.NoError(t, store.Mark(ctx, "a", "2", true))

	count, err = store.Count(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, store.Mark(ctx, "b", "1", false))
	count, err = store.Count(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, store.Mark(ctx, "a", "1", false))
	count, err = store.Count(ctx, "1")
	require.NoError(t, err)
	require.Zero(t, count)

	// Reads never prune: page 2 keeps its stale entry until the page is written again.
	clock.Advance(DefaultPresenceWindow + time.Second)
	count, err = store.Count(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, store.Mark(ctx, "c", "2", true))
	count, err = store.Count(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, 1, count, "stale entry pruned on write, fresh one kept")
}
