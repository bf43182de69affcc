package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, requests int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client, requests, window), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	rl, mr := newRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl := mr.TTL(keyPrefix + "10.0.0.1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	ok, _ = rl.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are counted separately")

	mr.FastForward(time.Minute + time.Second)

	ok, err = rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window starts after expiry")
}

func TestRedisLimiter_RearmsCounterWithoutExpiry(t *testing.T) {
	rl, mr := newRedisLimiter(t, 3, time.Minute)
	ctx := context.Background()
	key := keyPrefix + "10.0.0.9"

	// A counter left over limit with no TTL
	require.NoError(t, mr.Set(key, "10"))
	require.Equal(t, time.Duration(0), mr.TTL(key))

	ok, err := rl.Allow(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, mr.TTL(key), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)

	ok, err = rl.Allow(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_BackendError(t *testing.T) {
	rl, mr := newRedisLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := rl.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), addr, "", 0)
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
