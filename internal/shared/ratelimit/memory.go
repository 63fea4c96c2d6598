package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process sliding-window limiter. It serves single
// instance deployments and tests; horizontally scaled instances should use
// the Redis limiter so all replicas share one window.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewMemoryLimiter constructs an in-process limiter allowing limit requests per window.
func NewMemoryLimiter(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    now,
	}
}

// Allow records the request and reports whether it fits the window.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := l.now().UTC()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}

	resetAt := now.Add(l.window)
	if len(kept) > 0 {
		resetAt = kept[0].Add(l.window)
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	kept = append(kept, now)
	l.hits[key] = kept
	return Result{Allowed: true, Remaining: l.limit - len(kept), ResetAt: resetAt}, nil
}

var _ Limiter = (*MemoryLimiter)(nil)
