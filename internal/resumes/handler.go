package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler exposes resume CRUD over HTTP.
type Handler struct {
	Service *Service
}

// RegisterRoutes mounts resume routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.Create)
	rg.GET("/resumes", h.List)
	rg.GET("/resumes/:id", h.Get)
	rg.PUT("/resumes/:id", h.Update)
	rg.DELETE("/resumes/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}

	resume, err := h.Service.Create(c.Request.Context(), userID, req.Title, req.TemplateID, req.Content)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid resume payload", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not create resume", nil)
		return
	}
	respond.Created(c, toResumeResponse(resume))
}

func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not list resumes", nil)
		return
	}
	respond.OK(c, gin.H{"items": toListResponse(items)})
}

func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	resume, err := h.Service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not fetch resume", nil)
		return
	}
	respond.OK(c, toResumeResponse(resume))
}

func (h *Handler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}

	resume, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), req.Title, req.TemplateID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid resume payload", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "could not update resume", nil)
		}
		return
	}
	respond.OK(c, toResumeResponse(resume))
}

func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	err := h.Service.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not delete resume", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
