package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/shared/config"
)

func TestMetricsEndpointNeedsNoSession(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("scrape without token: status %d, want 200", resp.Code)
	}
}

func TestHealthEndpointNeedsNoSession(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("health probe without token: status %d, want 200", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7000": ":7000",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q)=%q, want %q", in, got, want)
		}
	}
}
