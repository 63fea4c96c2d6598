package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a TTL key-value store shared across server instances.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// CooldownStore wraps a Store and stops talking to it for a cool-down window
// after any backend error, so an unhealthy cache is not hammered on every
// request. During the window Get reports a miss and Set/Delete are dropped.
type CooldownStore struct {
	base     Store
	cooldown time.Duration
	now      func() time.Time

	mu            sync.Mutex
	degradedUntil time.Time
}

// NewCooldownStore wraps base with a cool-down window.
func NewCooldownStore(base Store, cooldown time.Duration, now func() time.Time) *CooldownStore {
	if now == nil {
		now = time.Now
	}
	return &CooldownStore{base: base, cooldown: cooldown, now: now}
}

// Get reads through to the base store unless degraded.
func (s *CooldownStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.degraded() {
		return nil, false, nil
	}
	val, ok, err := s.base.Get(ctx, key)
	if err != nil {
		s.markDegraded()
		return nil, false, err
	}
	return val, ok, nil
}

// Set writes through to the base store unless degraded.
func (s *CooldownStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.degraded() {
		return nil
	}
	if err := s.base.Set(ctx, key, value, ttl); err != nil {
		s.markDegraded()
		return err
	}
	return nil
}

// Delete removes key from the base store unless degraded.
func (s *CooldownStore) Delete(ctx context.Context, key string) error {
	if s.degraded() {
		return nil
	}
	if err := s.base.Delete(ctx, key); err != nil {
		s.markDegraded()
		return err
	}
	return nil
}

func (s *CooldownStore) degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.degradedUntil)
}

func (s *CooldownStore) markDegraded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degradedUntil = s.now().Add(s.cooldown)
}

var _ Store = (*CooldownStore)(nil)
