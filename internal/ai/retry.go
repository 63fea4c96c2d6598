package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxRetries marks a failure after the retry ceiling was consumed, so
// callers can distinguish it from a single-attempt failure.
var ErrMaxRetries = errors.New("max retries reached")

const (
	// DefaultMaxAttempts is the total attempt ceiling per generation.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the first backoff delay; it doubles per attempt.
	DefaultBaseDelay = 2000 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done. Injectable for tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry runs op up to maxAttempts times, sleeping baseDelay, 2*baseDelay,
// 4*baseDelay... after each failed attempt for which retryable returns true.
// A non-retryable error propagates immediately. When attempts are exhausted
// the last error is returned wrapped in ErrMaxRetries.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, sleep SleepFunc, retryable func(error) bool, op func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if sleep == nil {
		sleep = sleepWithContext
	}
	if retryable == nil {
		retryable = IsRetryable
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %w", ErrMaxRetries, lastErr)
}
