package aiusage

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements the usage store on Postgres.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(database *sql.DB) *PGStore {
	return &PGStore{DB: database}
}

// Insert appends one usage record. Records are never updated or deleted here.
func (s *PGStore) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO ai_usage_records (
    id, user_id, content_type, tokens_used, duration_ms,
    cache_hit, success, cost_estimate, error_message, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.UserID,
		rec.ContentType,
		rec.TokensUsed,
		rec.DurationMs,
		rec.CacheHit,
		rec.Success,
		rec.CostEstimate,
		rec.ErrorMessage,
		rec.CreatedAt,
	)
	return err
}

// Summarize aggregates records created at or after since.
func (s *PGStore) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	const totalsQuery = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE cache_hit),
    COUNT(*) FILTER (WHERE NOT success),
    COALESCE(SUM(tokens_used), 0),
    COALESCE(SUM(cost_estimate), 0)
FROM ai_usage_records
WHERE created_at >= $1`

	var out Summary
	row := s.DB.QueryRowContext(ctx, totalsQuery, since)
	if err := row.Scan(&out.TotalRequests, &out.CacheHits, &out.Failures, &out.TotalTokens, &out.TotalCost); err != nil {
		return Summary{}, err
	}

	const byTypeQuery = `
SELECT content_type, COUNT(*)
FROM ai_usage_records
WHERE created_at >= $1
GROUP BY content_type
ORDER BY content_type`

	rows, err := s.DB.QueryContext(ctx, byTypeQuery, since)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.ContentType, &tc.Count); err != nil {
			return Summary{}, err
		}
		out.ByContentType = append(out.ByContentType, tc)
	}
	return out, rows.Err()
}

// ListByUser returns a user's most recent records, newest first.
func (s *PGStore) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	const query = `
SELECT id, user_id, content_type, tokens_used, duration_ms,
       cache_hit, success, cost_estimate, error_message, created_at
FROM ai_usage_records
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.ContentType,
			&rec.TokensUsed,
			&rec.DurationMs,
			&rec.CacheHit,
			&rec.Success,
			&rec.CostEstimate,
			&rec.ErrorMessage,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
