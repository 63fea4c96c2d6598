package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})
	return router
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	id := resp.Header().Get("X-Request-Id")
	if id == "" {
		t.Fatal("expected a generated request id header")
	}
	if resp.Body.String() != id {
		t.Fatalf("context id %q differs from header %q", resp.Body.String(), id)
	}
}

func TestRequestIDEchoesInboundID(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "gw-abc123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Request-Id"); got != "gw-abc123" {
		t.Fatalf("inbound id not kept: %q", got)
	}
}

func TestRequestIDReplacesOversizedInboundID(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", maxRequestIDLen+1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	got := resp.Header().Get("X-Request-Id")
	if got == "" || len(got) > maxRequestIDLen {
		t.Fatalf("oversized inbound id should be replaced, got %q", got)
	}
}
