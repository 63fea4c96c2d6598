package aiusage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore is an in-memory usage store for dev and tests.
type memoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryStore) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out Summary
	byType := make(map[string]int)
	for _, rec := range s.records {
		if rec.CreatedAt.Before(since) {
			continue
		}
		out.TotalRequests++
		out.TotalTokens += rec.TokensUsed
		out.TotalCost += rec.CostEstimate
		if rec.CacheHit {
			out.CacheHits++
		}
		if !rec.Success {
			out.Failures++
		}
		byType[rec.ContentType]++
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		out.ByContentType = append(out.ByContentType, TypeCount{ContentType: t, Count: byType[t]})
	}
	return out, nil
}

func (s *memoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
