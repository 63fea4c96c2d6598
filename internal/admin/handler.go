package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/aiusage"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

// Handler exposes the admin surface: usage aggregates and user moderation.
// All routes sit behind RequireAdmin.
type Handler struct {
	Usage *aiusage.Service
	Users *users.Service
}

// RegisterRoutes mounts admin routes on the given (admin-only) group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.usageSummary)
	rg.GET("/users", h.listUsers)
	rg.POST("/users/:id/deactivate", h.deactivateUser)
}

// usageSummary aggregates AI usage since a cutoff, defaulting to 30 days.
func (h *Handler) usageSummary(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	summary, err := h.Usage.Summarize(c.Request.Context(), since)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not aggregate usage", nil)
		return
	}
	respond.OK(c, gin.H{
		"since":   since,
		"summary": summary,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.Users.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not list users", nil)
		return
	}
	respond.OK(c, gin.H{"items": list})
}

func (h *Handler) deactivateUser(c *gin.Context) {
	userID := c.Param("id")
	if err := h.Users.Deactivate(c.Request.Context(), userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not deactivate user", nil)
		return
	}
	respond.OK(c, gin.H{"deactivated": true})
}
