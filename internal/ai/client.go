package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// GenerateConfig bounds one provider call.
type GenerateConfig struct {
	MaxOutputTokens int
	Temperature     float32
}

const (
	defaultMaxOutputTokens = 512
	maxOutputTokensCeiling = 2000
)

// Normalized clamps the configuration into provider-safe bounds.
func (c GenerateConfig) Normalized() GenerateConfig {
	out := c
	if out.MaxOutputTokens <= 0 {
		out.MaxOutputTokens = defaultMaxOutputTokens
	}
	if out.MaxOutputTokens > maxOutputTokensCeiling {
		out.MaxOutputTokens = maxOutputTokensCeiling
	}
	if out.Temperature < 0 {
		out.Temperature = 0
	}
	if out.Temperature > 1 {
		out.Temperature = 1
	}
	return out
}

// Client abstracts text-generation providers.
type Client interface {
	Generate(ctx context.Context, prompt string, cfg GenerateConfig) (string, error)
}

// ProviderError carries the HTTP-like status returned by a provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is a transient provider failure worth
// retrying. Only rate-limiting and unavailability qualify; everything else
// propagates immediately.
func IsRetryable(err error) bool {
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		return false
	}
	return pErr.StatusCode == http.StatusTooManyRequests || pErr.StatusCode == http.StatusServiceUnavailable
}
