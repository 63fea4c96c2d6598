package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler serves resume PDF exports.
type Handler struct {
	Resumes *resumes.Service
}

// RegisterRoutes mounts the export route on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/export.pdf", h.ExportPDF)
}

func (h *Handler) ExportPDF(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	resume, err := h.Resumes.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not fetch resume", nil)
		return
	}

	payload, err := RenderPDF(resume)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not render pdf", nil)
		return
	}

	filename := safeFilename(resume.Title) + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// safeFilename keeps the download name readable without trusting the title.
func safeFilename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "resume"
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "resume"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
