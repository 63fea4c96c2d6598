package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/ai"
	"resume-builder/internal/aiusage"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/users"
)

func newAdminRouter(role string, h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "admin-1")
		c.Set("userRole", role)
		c.Next()
	})
	group := router.Group("/api/v1/admin")
	group.Use(middleware.RequireAdmin())
	h.RegisterRoutes(group)
	return router
}

func TestUsageSummaryAggregates(t *testing.T) {
	usage := aiusage.NewService()
	usage.RecordUsage(context.Background(), ai.UsageEvent{UserID: "u1", ContentType: "summary", Tokens: 1000, Success: true})
	usage.RecordUsage(context.Background(), ai.UsageEvent{UserID: "u1", ContentType: "summary", CacheHit: true, Success: true})
	usage.RecordUsage(context.Background(), ai.UsageEvent{UserID: "u2", ContentType: "improve", ErrMessage: "max retries reached"})

	h := &Handler{Usage: usage, Users: users.NewService(users.NewMemoryRepo())}
	router := newAdminRouter("admin", h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/usage?days=7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Since   time.Time       `json:"since"`
		Summary aiusage.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Summary.TotalRequests)
	assert.Equal(t, 1, out.Summary.CacheHits)
	assert.Equal(t, 1, out.Summary.Failures)
	assert.Equal(t, 1000, out.Summary.TotalTokens)
	assert.Len(t, out.Summary.ByContentType, 2)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h := &Handler{Usage: aiusage.NewService(), Users: users.NewService(users.NewMemoryRepo())}
	router := newAdminRouter("member", h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/usage", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestDeactivateUser(t *testing.T) {
	repo := users.NewMemoryRepo()
	usersSvc := users.NewService(repo)
	_, err := usersSvc.UpsertFromAuth(context.Background(), users.User{ID: "google:1", Email: "a@example.com"})
	require.NoError(t, err)

	h := &Handler{Usage: aiusage.NewService(), Users: usersSvc}
	router := newAdminRouter("admin", h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/google:1/deactivate", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	u, err := repo.GetByID(context.Background(), "google:1")
	require.NoError(t, err)
	assert.True(t, u.Deactivated)

	missing := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/nobody/deactivate", nil)
	missingResp := httptest.NewRecorder()
	router.ServeHTTP(missingResp, missing)
	assert.Equal(t, http.StatusNotFound, missingResp.Code)
}
