package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter answers whether a keyed request fits inside its sliding window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
