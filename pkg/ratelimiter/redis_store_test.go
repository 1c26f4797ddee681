package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlements/pkg/ratelimiter"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func newBucket(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Bucket, *testClock, *miniredis.Miniredis) {
	t.Helper()
	srv, client := newRedis(t)
	clock := &testClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("rl:"), ratelimiter.WithClock(clock.Now))
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, clock, srv
}

func TestRedisStoreTokenBucket(t *testing.T) {
	t.Parallel()

	cfg := ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: 10 * time.Second}
	b, clock, srv := newBucket(t, cfg)
	ctx := context.Background()

	for i := range 3 {
		res, err := b.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := b.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, -1, res.Remaining)
	assert.Equal(t, clock.Now().Add(10*time.Second).UnixMilli(), res.ResetAt.UnixMilli())

	// a denied request consumes nothing
	status, err := b.Status(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)

	clock.Advance(10 * time.Second)
	res, err = b.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	assert.True(t, srv.Exists("rl:user-1"))
	assert.Greater(t, srv.TTL("rl:user-1"), time.Duration(0))
}

func TestRedisStoreRefillCapsAtCapacity(t *testing.T) {
	t.Parallel()

	cfg := ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second}
	b, clock, _ := newBucket(t, cfg)
	ctx := context.Background()

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	res, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestRedisStoreKeysAreIndependent(t *testing.T) {
	t.Parallel()

	cfg := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute}
	b, _, _ := newBucket(t, cfg)
	ctx := context.Background()

	res, err := b.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	res, err = b.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	res, err = b.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, "a"))
	res, err = b.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestRedisStoreUnavailable(t *testing.T) {
	t.Parallel()

	srv, client := newRedis(t)
	b, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client),
		ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	srv.Close()
	_, err = b.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}

func TestBucketValidation(t *testing.T) {
	t.Parallel()

	_, client := newRedis(t)
	store := ratelimiter.NewRedisStore(client)

	for name, cfg := range map[string]ratelimiter.Config{
		"capacity": {Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		"rate":     {Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		"interval": {Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(store, cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig, name)
	}

	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	_, err = b.Allow(context.Background(), "")
	assert.ErrorIs(t, err, ratelimiter.ErrEmptyKey)
}
