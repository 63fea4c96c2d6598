package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/ai"
	"resume-builder/internal/shared/cache"
	"resume-builder/internal/shared/ratelimit"
	"resume-builder/internal/shared/server/middleware"
)

type stubClient struct {
	text  string
	err   error
	calls int
}

func (s *stubClient) Generate(ctx context.Context, prompt string, cfg ai.GenerateConfig) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestRouter(h *Handler, limiter ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	group := router.Group("/api/v1/ai")
	group.Use(middleware.RateLimit(middleware.RateLimitConfig{Limiter: limiter, KeyPrefix: "ai"}))
	h.RegisterRoutes(group)
	return router
}

func newPipeline(client ai.Client, store cache.Store) *ai.Pipeline {
	p := ai.NewPipeline(client, store, nil)
	p.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSummaryMissThenHitSetsCacheHeader(t *testing.T) {
	client := &stubClient{text: "An experienced engineer."}
	h := &Handler{Pipeline: newPipeline(client, cache.NewMemoryStore(nil))}
	router := newTestRouter(h, nil)

	body := `{"jobTitle":"Engineer","yearsExperience":"5","skills":"Go"}`

	first := postJSON(router, "/api/v1/ai/summary", body)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status %d body %s", first.Code, first.Body.String())
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first request X-Cache=%q, want MISS", got)
	}

	second := postJSON(router, "/api/v1/ai/summary", body)
	if second.Code != http.StatusOK {
		t.Fatalf("second request: status %d", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("second request X-Cache=%q, want HIT", got)
	}
	if client.calls != 1 {
		t.Fatalf("provider calls=%d, want 1", client.calls)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Text != "An experienced engineer." {
		t.Fatalf("unexpected text %q", out.Text)
	}
}

func TestSummaryFallbackOnProviderOutage(t *testing.T) {
	client := &stubClient{err: &ai.ProviderError{StatusCode: 503, Message: "down"}}
	h := &Handler{Pipeline: newPipeline(client, nil)}
	router := newTestRouter(h, nil)

	resp := postJSON(router, "/api/v1/ai/summary", `{"jobTitle":"Engineer","yearsExperience":"5","skills":"Go"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 with fallback", resp.Code)
	}
	if got := resp.Header().Get("X-Fallback"); got != "true" {
		t.Fatalf("X-Fallback=%q, want true", got)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.Text, "Engineer") {
		t.Fatalf("fallback should use the user's input, got %q", out.Text)
	}
}

func TestExperienceBulletsParsesFencedJSON(t *testing.T) {
	client := &stubClient{text: "Here you go: ```json {\"bullets\": [\"Shipped the thing\", \"Cut latency 40%\"]} ```"}
	h := &Handler{Pipeline: newPipeline(client, nil)}
	router := newTestRouter(h, nil)

	resp := postJSON(router, "/api/v1/ai/experience-bullets", `{"jobTitle":"Engineer","company":"Acme"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d body %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Bullets []string `json:"bullets"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Bullets) != 2 || out.Bullets[0] != "Shipped the thing" {
		t.Fatalf("unexpected bullets %v", out.Bullets)
	}
}

func TestExperienceBulletsUnparseableFallsBack(t *testing.T) {
	client := &stubClient{text: "no json, just vibes"}
	h := &Handler{Pipeline: newPipeline(client, nil)}
	router := newTestRouter(h, nil)

	resp := postJSON(router, "/api/v1/ai/experience-bullets", `{"jobTitle":"Engineer","company":"Acme"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d", resp.Code)
	}

	var out struct {
		Bullets []string `json:"bullets"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Bullets) == 0 {
		t.Fatal("expected deterministic fallback bullets")
	}
	if resp.Header().Get("X-Fallback") != "true" {
		t.Fatalf("X-Fallback=%q, want true for synthesized bullets", resp.Header().Get("X-Fallback"))
	}
}

func TestImproveFailsWithoutFallback(t *testing.T) {
	client := &stubClient{err: &ai.ProviderError{StatusCode: 429, Message: "rate limited"}}
	h := &Handler{Pipeline: newPipeline(client, nil)}
	router := newTestRouter(h, nil)

	resp := postJSON(router, "/api/v1/ai/improve", `{"text":"I done stuff"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", resp.Code)
	}
	if resp.Header().Get("X-Fallback") != "" {
		t.Fatal("improve must not advertise a fallback")
	}
}

func TestGenerateEndpointsValidateInput(t *testing.T) {
	h := &Handler{Pipeline: newPipeline(&stubClient{text: "x"}, nil)}
	router := newTestRouter(h, nil)

	cases := []struct {
		path string
		body string
	}{
		{"/api/v1/ai/summary", `{}`},
		{"/api/v1/ai/experience-bullets", `{}`},
		{"/api/v1/ai/education-description", `{}`},
		{"/api/v1/ai/improve", `{}`},
	}
	for _, tc := range cases {
		resp := postJSON(router, tc.path, tc.body)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.path, resp.Code)
		}
	}
}

func TestRateLimitedGenerationReturns429(t *testing.T) {
	client := &stubClient{text: "ok"}
	h := &Handler{Pipeline: newPipeline(client, nil)}
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute, nil)
	router := newTestRouter(h, limiter)

	body := `{"jobTitle":"Engineer"}`
	if resp := postJSON(router, "/api/v1/ai/summary", body); resp.Code != http.StatusOK {
		t.Fatalf("first request: status %d", resp.Code)
	}

	resp := postJSON(router, "/api/v1/ai/summary", body)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("429 response must carry Retry-After")
	}
}
