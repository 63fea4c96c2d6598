package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/ratelimit"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// RateLimitConfig wires a limiter to a route group.
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	// KeyPrefix namespaces the limiter key, e.g. "ai" yields "ai:<userId>".
	KeyPrefix string
}

// RateLimit enforces a per-user quota via the configured limiter. Limiter
// failures fail open: quota enforcement must never take the feature down.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Limiter == nil {
			c.Next()
			return
		}

		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal
		if cfg.KeyPrefix != "" {
			key = cfg.KeyPrefix + ":" + principal
		}

		res, err := cfg.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			telemetry.Warn("ratelimit.unavailable", map[string]any{
				"request_id": RequestIDFromContext(c),
				"key":        key,
				"error":      err.Error(),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed {
			c.Next()
			return
		}

		retryAfter := time.Until(res.ResetAt)
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many generation requests", gin.H{
			"retryAfterMs": retryAfterSeconds * 1000,
			"resetAt":      res.ResetAt.UTC(),
		})
	}
}
