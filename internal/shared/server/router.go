package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/admin"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/export"
	"resume-builder/internal/extract"
	"resume-builder/internal/generate"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/ratelimit"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

// RouterDeps carries the handlers the router wires up. Nil handlers are
// skipped, which keeps focused tests small.
type RouterDeps struct {
	Config          config.Config
	ResumesHandler  *resumes.Handler
	GenerateHandler *generate.Handler
	ExportHandler   *export.Handler
	ImportHandler   *extract.Handler
	UsersHandler    *users.Handler
	AdminHandler    *admin.Handler
	GoogleAuth      *googleauth.GoogleService
	Webhooks        *googleauth.WebhookHandler
	AILimiter       ratelimit.Limiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Registered before the middleware chain: scrapers send no session token.
	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Webhooks != nil {
		deps.Webhooks.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.RegisterRoutes(api)
	}

	if deps.GenerateHandler != nil {
		aiGroup := api.Group("/ai")
		aiGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   deps.AILimiter,
			KeyPrefix: "ai",
		}))
		deps.GenerateHandler.RegisterRoutes(aiGroup)
	}

	if deps.AdminHandler != nil {
		adminGroup := api.Group("/admin")
		adminGroup.Use(middleware.RequireAdmin())
		deps.AdminHandler.RegisterRoutes(adminGroup)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
