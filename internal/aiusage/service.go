package aiusage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/ai"
	"resume-builder/internal/shared/telemetry"
)

// Cost model: a rough per-token estimate for dashboards, not billing.
const (
	costPerThousandTokens = 0.002
	flatRequestCost       = 0.001
)

type store interface {
	Insert(ctx context.Context, rec Record) error
	Summarize(ctx context.Context, since time.Time) (Summary, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}

// Service records and aggregates AI usage via an underlying store.
type Service struct {
	store store
	now   func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore(), now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore *PGStore) *Service {
	return &Service{store: pgStore, now: time.Now}
}

// RecordUsage persists one usage event. Best-effort: failures are logged and
// swallowed so observability never breaks a user-facing request.
func (s *Service) RecordUsage(ctx context.Context, ev ai.UsageEvent) {
	rec := Record{
		ID:           uuid.NewString(),
		UserID:       ev.UserID,
		ContentType:  ev.ContentType,
		TokensUsed:   ev.Tokens,
		DurationMs:   int(ev.Duration.Milliseconds()),
		CacheHit:     ev.CacheHit,
		Success:      ev.Success,
		CostEstimate: estimateCost(ev),
		ErrorMessage: ev.ErrMessage,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		telemetry.Warn("aiusage.record_failed", map[string]any{
			"user_id":      rec.UserID,
			"content_type": rec.ContentType,
			"error":        err.Error(),
		})
	}
}

// Summarize aggregates records created at or after since.
func (s *Service) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	return s.store.Summarize(ctx, since)
}

// ListByUser returns a user's most recent records, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

// estimateCost assigns zero cost to cache hits, a token-proportional cost
// when a token estimate exists, and a flat estimate otherwise.
func estimateCost(ev ai.UsageEvent) float64 {
	if ev.CacheHit {
		return 0
	}
	if ev.Tokens > 0 {
		return float64(ev.Tokens) / 1000.0 * costPerThousandTokens
	}
	return flatRequestCost
}

var _ ai.UsageRecorder = (*Service)(nil)
