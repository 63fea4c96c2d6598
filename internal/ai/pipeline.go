package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/shared/cache"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// DefaultCacheTTL is how long generated responses stay cached.
const DefaultCacheTTL = 3600 * time.Second

// UsageEvent describes one generation attempt for the usage recorder.
type UsageEvent struct {
	UserID      string
	ContentType string
	Tokens      int
	Duration    time.Duration
	CacheHit    bool
	Success     bool
	ErrMessage  string
}

// UsageRecorder persists usage events. Implementations must be best-effort:
// they never return an error to the pipeline.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, ev UsageEvent)
}

// Request is one AI generation request.
type Request struct {
	UserID      string
	ContentType string
	Prompt      PromptInput
	Config      GenerateConfig
	// Fallback synthesizes a deterministic placeholder when the provider is
	// unrecoverable. Nil means the endpoint has no meaningful placeholder and
	// the failure propagates.
	Fallback func() string
}

// Result is the outcome of a pipeline run.
type Result struct {
	Text     string
	CacheHit bool
	Fallback bool
}

// ErrNoGeneration wraps the provider error when generation fails and the
// request has no fallback to synthesize from.
var ErrNoGeneration = errors.New("generation failed")

// Pipeline runs normalize -> cache gate -> provider invoke with retry ->
// usage record -> cache write-back for every AI-backed endpoint.
type Pipeline struct {
	Client      Client
	Cache       cache.Store // nil disables caching
	Recorder    UsageRecorder
	CacheTTL    time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       SleepFunc // nil uses real sleeps
	now         func() time.Time
}

// NewPipeline constructs a Pipeline with default retry and TTL settings.
func NewPipeline(client Client, store cache.Store, recorder UsageRecorder) *Pipeline {
	return &Pipeline{
		Client:      client,
		Cache:       store,
		Recorder:    recorder,
		CacheTTL:    DefaultCacheTTL,
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

type cachedGeneration struct {
	Text string `json:"text"`
}

// Generate runs one request through the pipeline. Exactly one usage event is
// recorded per call, whatever the outcome.
func (p *Pipeline) Generate(ctx context.Context, req Request) (Result, error) {
	if p.Client == nil {
		return Result{}, errors.New("pipeline: client is required")
	}

	prompt := BuildPrompt(req.Prompt)
	key := PromptKey(prompt)
	start := p.timeNow()

	metrics.IncGenerationStarted()

	if text, ok := p.cacheGet(ctx, key); ok {
		metrics.IncGenerationCacheHit()
		p.record(ctx, req, UsageEvent{
			Tokens:   estimateTokens(text),
			Duration: p.timeNow().Sub(start),
			CacheHit: true,
			Success:  true,
		})
		return Result{Text: text, CacheHit: true}, nil
	}

	cfg := req.Config.Normalized()
	var text string
	err := Retry(ctx, p.MaxAttempts, p.BaseDelay, p.Sleep, IsRetryable, func(ctx context.Context) error {
		out, genErr := p.Client.Generate(ctx, prompt, cfg)
		if genErr != nil {
			return genErr
		}
		text = out
		return nil
	})
	duration := p.timeNow().Sub(start)

	if err != nil {
		metrics.IncGenerationFailed()
		p.record(ctx, req, UsageEvent{
			Duration:   duration,
			ErrMessage: err.Error(),
		})
		if req.Fallback != nil {
			metrics.IncGenerationFallback()
			telemetry.Warn("ai.fallback", map[string]any{
				"content_type": req.ContentType,
				"user_id":      req.UserID,
				"error":        err.Error(),
			})
			return Result{Text: req.Fallback(), Fallback: true}, nil
		}
		return Result{}, fmt.Errorf("%w: %w", ErrNoGeneration, err)
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(duration.Milliseconds()))
	p.record(ctx, req, UsageEvent{
		Tokens:   estimateTokens(prompt) + estimateTokens(text),
		Duration: duration,
		Success:  true,
	})
	p.cacheSet(ctx, key, text)

	return Result{Text: text}, nil
}

func (p *Pipeline) cacheGet(ctx context.Context, key string) (string, bool) {
	if p.Cache == nil {
		return "", false
	}
	raw, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		// A broken cache is a miss, never a request failure.
		telemetry.Warn("ai.cache.get_failed", map[string]any{"key": key, "error": err.Error()})
		return "", false
	}
	if !ok {
		return "", false
	}
	var entry cachedGeneration
	if jsonErr := json.Unmarshal(raw, &entry); jsonErr != nil {
		telemetry.Warn("ai.cache.corrupt_entry", map[string]any{"key": key})
		return "", false
	}
	return entry.Text, true
}

func (p *Pipeline) cacheSet(ctx context.Context, key, text string) {
	if p.Cache == nil {
		return
	}
	ttl := p.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	raw, err := json.Marshal(cachedGeneration{Text: text})
	if err != nil {
		return
	}
	if err := p.Cache.Set(ctx, key, raw, ttl); err != nil {
		telemetry.Warn("ai.cache.set_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

func (p *Pipeline) record(ctx context.Context, req Request, ev UsageEvent) {
	if p.Recorder == nil {
		return
	}
	ev.UserID = req.UserID
	ev.ContentType = req.ContentType
	p.Recorder.RecordUsage(ctx, ev)
}

func (p *Pipeline) timeNow() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// estimateTokens approximates token count from text length. Good enough for
// cost observability; not a billing-grade figure.
func estimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}
