package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestMemoryStoreSetGetDelete(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(val) != "v" {
		t.Fatalf("unexpected value %q", val)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock.Advance(time.Hour - time.Second)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("expected hit just before TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
}

type flakyStore struct {
	failing bool
	data    map[string][]byte
}

func newFlakyStore() *flakyStore {
	return &flakyStore{data: make(map[string][]byte)}
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failing {
		return nil, false, errors.New("backend down")
	}
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.failing {
		return errors.New("backend down")
	}
	s.data[key] = value
	return nil
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if s.failing {
		return errors.New("backend down")
	}
	delete(s.data, key)
	return nil
}

func TestCooldownStoreBacksOffAfterError(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	base := newFlakyStore()
	store := NewCooldownStore(base, 30*time.Second, clock.Now)
	ctx := context.Background()

	base.data["k"] = []byte("v")

	base.failing = true
	if _, ok, err := store.Get(ctx, "k"); ok || err == nil {
		t.Fatalf("expected error miss while backend down, ok=%v err=%v", ok, err)
	}

	// Backend recovers, but the cool-down window is still open.
	base.failing = false
	if _, ok, err := store.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected silent miss during cool-down, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "k2", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set during cool-down must be a no-op, got %v", err)
	}
	if _, ok := base.data["k2"]; ok {
		t.Fatal("Set must not reach the backend during cool-down")
	}

	clock.Advance(31 * time.Second)
	if _, ok, err := store.Get(ctx, "k"); !ok || err != nil {
		t.Fatalf("expected hit after cool-down, ok=%v err=%v", ok, err)
	}
}
