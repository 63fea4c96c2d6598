package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetryStopsAfterMaxAttemptsWithBackoff(t *testing.T) {
	var sleeps []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	attempts := 0
	err := Retry(context.Background(), 3, 2*time.Second, sleep, IsRetryable, func(ctx context.Context) error {
		attempts++
		return &ProviderError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
	})

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries, got %v", err)
	}
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected wrapped ProviderError, got %v", err)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(sleeps))
	}
	var total time.Duration
	for i, d := range want {
		if sleeps[i] != d {
			t.Fatalf("sleep %d: expected %v, got %v", i, d, sleeps[i])
		}
		total += sleeps[i]
	}
	if total < 14*time.Second {
		t.Fatalf("expected at least 14s of backoff, got %v", total)
	}
}

func TestRetryNonRetryablePropagatesImmediately(t *testing.T) {
	sleep := func(ctx context.Context, d time.Duration) error {
		t.Fatalf("unexpected sleep of %v", d)
		return nil
	}

	attempts := 0
	authErr := &ProviderError{StatusCode: http.StatusUnauthorized, Message: "bad key"}
	err := Retry(context.Background(), 3, time.Second, sleep, IsRetryable, func(ctx context.Context) error {
		attempts++
		return authErr
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, authErr) {
		t.Fatalf("expected the provider error unchanged, got %v", err)
	}
	if errors.Is(err, ErrMaxRetries) {
		t.Fatalf("single-attempt failure must not carry ErrMaxRetries")
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	var sleeps []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	attempts := 0
	err := Retry(context.Background(), 3, 2*time.Second, sleep, IsRetryable, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &ProviderError{StatusCode: http.StatusServiceUnavailable, Message: "overloaded"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps before success, got %d", len(sleeps))
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := Retry(ctx, 3, time.Second, sleep, IsRetryable, func(ctx context.Context) error {
		return &ProviderError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &ProviderError{StatusCode: 429}, true},
		{"unavailable", &ProviderError{StatusCode: 503}, true},
		{"bad request", &ProviderError{StatusCode: 400}, false},
		{"server error", &ProviderError{StatusCode: 500}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable=%v, want %v", tc.name, got, tc.want)
		}
	}
}
