package extract

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/util"
)

// Uploads above this size are rejected before extraction.
const maxUploadBytes = 10 << 20

// maxImportedSummary caps how much extracted text lands in the draft.
const maxImportedSummary = 5000

// Handler turns an uploaded PDF or DOCX into a draft resume.
type Handler struct {
	Resumes *resumes.Service
}

// RegisterRoutes mounts the import route on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/import", h.Import)
}

func (h *Handler) Import(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10MB", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10MB", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	text, err := TextFromBytes(c.Request.Context(), data, mimeType, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF and DOCX files are supported", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "could not extract text from file", nil)
		return
	}

	title := titleFromFilename(fileHeader.Filename)
	content := resumes.Content{
		Summary: util.Truncate(strings.TrimSpace(text), maxImportedSummary),
	}
	resume, err := h.Resumes.Create(c.Request.Context(), userID, title, "", content)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not create resume", nil)
		return
	}

	respond.Created(c, gin.H{
		"id":            resume.ID,
		"title":         resume.Title,
		"extractedText": content.Summary,
	})
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(base, "_", " "), "-", " "))
	if base == "" {
		return "Imported resume"
	}
	return util.Truncate(base, 120)
}
