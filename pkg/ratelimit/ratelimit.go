// Package ratelimit throttles requests per key (usually a client IP).
//
// Two backends are provided: a Redis fixed-window counter shared between
// replicas, and an in-process token bucket for single-node deployments.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter manages per-key token buckets. Buckets idle for a full
// window are refilled anyway, so a background sweep drops them.
type MemoryLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*bucket
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time

	// Cleanup
	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemory allows requests per window with the whole allowance available as burst.
// Call Stop to end the sweep goroutine.
func NewMemory(requests int, window time.Duration) *MemoryLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	m := &MemoryLimiter{
		limiters: make(map[string]*bucket),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idle:     window,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go m.cleanup()

	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	b := m.getBucket(key)
	b.lastSeen.Store(m.now().UnixNano())
	return b.limiter.Allow(), nil
}

// getBucket returns the bucket for a key, creating one if needed.
func (m *MemoryLimiter) getBucket(key string) *bucket {
	m.mu.RLock()
	b, exists := m.limiters[key]
	m.mu.RUnlock()

	if exists {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if b, exists = m.limiters[key]; exists {
		return b
	}

	b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
	m.limiters[key] = b
	return b
}

// Sweep drops buckets not used for a full window and returns how many went.
func (m *MemoryLimiter) Sweep() int {
	cutoff := m.now().Add(-m.idle).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, b := range m.limiters {
		if b.lastSeen.Load() <= cutoff {
			delete(m.limiters, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.limiters)
}

// Stop shuts down the cleanup goroutine.
func (m *MemoryLimiter) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

func (m *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(m.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.done:
			return
		}
	}
}
