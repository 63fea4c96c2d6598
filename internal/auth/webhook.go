package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

// WebhookHandler receives identity-provider events. The payload is verified
// with an HMAC-SHA256 signature before any event is acted on.
type WebhookHandler struct {
	SigningSecret string
	Users         *users.Service
}

// RegisterRoutes attaches the webhook receiver. These routes skip session
// auth; the signature is the authentication.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/identity", h.identity)
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	} `json:"data"`
}

func (h *WebhookHandler) identity(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read payload", nil)
		return
	}

	signature := c.GetHeader("X-Webhook-Signature")
	if err := sharedauth.VerifyWebhookSignature(h.SigningSecret, signature, payload); err != nil {
		respond.Error(c, http.StatusUnauthorized, "invalid_signature", "signature verification failed", nil)
		return
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid payload", nil)
		return
	}

	switch event.Type {
	case "user.deleted", "user.deactivated":
		err := h.deactivate(c, event)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process event", nil)
			return
		}
		// A user we never saw is not an error; the event is simply done.
	default:
		telemetry.Info("webhook.ignored", map[string]any{"type": event.Type})
	}

	respond.OK(c, gin.H{"received": true})
}

func (h *WebhookHandler) deactivate(c *gin.Context, event identityEvent) error {
	ctx := c.Request.Context()
	if event.Data.UserID != "" {
		return h.Users.Deactivate(ctx, event.Data.UserID)
	}
	if event.Data.Email != "" {
		return h.Users.DeactivateByEmail(ctx, event.Data.Email)
	}
	return nil
}
