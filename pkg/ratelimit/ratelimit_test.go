package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		requests int
		calls    int
		wantPass int
	}{
		{
			name:     "allowance covers all calls",
			requests: 3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding allowance blocks",
			requests: 2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewMemory(tt.requests, time.Hour)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				ok, err := rl.Allow(context.Background(), "10.0.0.1")
				require.NoError(t, err)
				if ok {
					passed++
				}
			}

			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewMemory(1, time.Hour)
	ctx := context.Background()

	ok, _ := rl.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = rl.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := NewMemory(1, time.Hour)
	t.Cleanup(rl.Stop)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	ctx := context.Background()

	_, _ = rl.Allow(ctx, "idle")
	_, _ = rl.Allow(ctx, "busy")
	require.Equal(t, 2, rl.Len())

	clock = clock.Add(30 * time.Minute)
	_, _ = rl.Allow(ctx, "busy")

	clock = clock.Add(45 * time.Minute)
	assert.Equal(t, 1, rl.Sweep())
	assert.Equal(t, 1, rl.Len())

	ok, err := rl.Allow(ctx, "idle")
	require.NoError(t, err)
	assert.True(t, ok, "an evicted key starts with a full bucket")
}

func TestMemoryLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewMemory(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
