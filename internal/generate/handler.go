package generate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/ai"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Content types recorded against usage and reported by the admin summary.
const (
	TypeSummary   = "summary"
	TypeBullets   = "experience_bullets"
	TypeEducation = "education_description"
	TypeImprove   = "improve"
)

// Handler exposes the AI generation endpoints. Every endpoint runs through
// the shared pipeline, so caching, retries, and usage recording behave the
// same regardless of content type.
type Handler struct {
	Pipeline *ai.Pipeline
}

// RegisterRoutes mounts the AI routes on the given (rate-limited) group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summary", h.Summary)
	rg.POST("/experience-bullets", h.ExperienceBullets)
	rg.POST("/education-description", h.EducationDescription)
	rg.POST("/improve", h.Improve)
}

type summaryRequest struct {
	JobTitle        string `json:"jobTitle" binding:"required"`
	YearsExperience string `json:"yearsExperience"`
	Skills          string `json:"skills"`
	Tone            string `json:"tone"`
}

type bulletsRequest struct {
	JobTitle    string `json:"jobTitle" binding:"required"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type educationRequest struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree" binding:"required"`
	Field       string `json:"field"`
}

type improveRequest struct {
	Text        string `json:"text" binding:"required"`
	Instruction string `json:"instruction"`
}

type textResponse struct {
	Text string `json:"text"`
}

type bulletsResponse struct {
	Bullets []string `json:"bullets"`
}

func (h *Handler) Summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "jobTitle is required", nil)
		return
	}

	result, err := h.Pipeline.Generate(c.Request.Context(), ai.Request{
		UserID:      userID,
		ContentType: TypeSummary,
		Prompt: ai.PromptInput{
			Instruction: "Write a professional resume summary in 2-3 sentences. Plain text only, no headings.",
			Fields: []ai.PromptField{
				{Name: "Job title", Value: req.JobTitle, MaxLen: 600},
				{Name: "Years of experience", Value: req.YearsExperience, MaxLen: 600},
				{Name: "Key skills", Value: req.Skills, MaxLen: 2000},
				{Name: "Tone", Value: req.Tone, MaxLen: 600},
			},
		},
		Config: ai.GenerateConfig{MaxOutputTokens: 300, Temperature: 0.7},
		Fallback: func() string {
			return summaryFallback(req.JobTitle, req.YearsExperience, req.Skills)
		},
	})
	if err != nil {
		writeGenerationError(c, err)
		return
	}
	writeResultHeaders(c, result)
	respond.OK(c, textResponse{Text: strings.TrimSpace(result.Text)})
}

func (h *Handler) ExperienceBullets(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req bulletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "jobTitle is required", nil)
		return
	}

	result, err := h.Pipeline.Generate(c.Request.Context(), ai.Request{
		UserID:      userID,
		ContentType: TypeBullets,
		Prompt: ai.PromptInput{
			Instruction: `Write 3-5 achievement-oriented resume bullet points for the role below. Respond with JSON only: {"bullets": ["..."]}.`,
			Fields: []ai.PromptField{
				{Name: "Job title", Value: req.JobTitle, MaxLen: 600},
				{Name: "Company", Value: req.Company, MaxLen: 600},
				{Name: "What the role involved", Value: req.Description, MaxLen: 5000},
			},
		},
		Config: ai.GenerateConfig{MaxOutputTokens: 500, Temperature: 0.7},
		Fallback: func() string {
			return ""
		},
	})
	if err != nil {
		writeGenerationError(c, err)
		return
	}
	writeResultHeaders(c, result)

	bullets := parseBullets(result.Text)
	if len(bullets) == 0 {
		// Unusable provider output is a fallback too.
		c.Header("X-Fallback", "true")
		bullets = bulletsFallback(req.JobTitle, req.Company)
	}
	respond.OK(c, bulletsResponse{Bullets: bullets})
}

func (h *Handler) EducationDescription(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "degree is required", nil)
		return
	}

	result, err := h.Pipeline.Generate(c.Request.Context(), ai.Request{
		UserID:      userID,
		ContentType: TypeEducation,
		Prompt: ai.PromptInput{
			Instruction: "Write a concise 1-2 sentence resume description for the education entry below. Plain text only.",
			Fields: []ai.PromptField{
				{Name: "Institution", Value: req.Institution, MaxLen: 600},
				{Name: "Degree", Value: req.Degree, MaxLen: 600},
				{Name: "Field of study", Value: req.Field, MaxLen: 600},
			},
		},
		Config: ai.GenerateConfig{MaxOutputTokens: 200, Temperature: 0.7},
		Fallback: func() string {
			return educationFallback(req.Degree, req.Field, req.Institution)
		},
	})
	if err != nil {
		writeGenerationError(c, err)
		return
	}
	writeResultHeaders(c, result)
	respond.OK(c, textResponse{Text: strings.TrimSpace(result.Text)})
}

// Improve rewrites user-provided text. There is no meaningful placeholder for
// a rewrite, so provider failure surfaces as 502 instead of a fallback.
func (h *Handler) Improve(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "text is required", nil)
		return
	}

	instruction := req.Instruction
	if instruction == "" {
		instruction = "Make it clearer, more concise, and more impactful."
	}

	result, err := h.Pipeline.Generate(c.Request.Context(), ai.Request{
		UserID:      userID,
		ContentType: TypeImprove,
		Prompt: ai.PromptInput{
			Instruction: "Improve the resume text below. Keep the meaning, return only the rewritten text.",
			Fields: []ai.PromptField{
				{Name: "Text", Value: req.Text, MaxLen: 5000},
				{Name: "Guidance", Value: instruction, MaxLen: 600},
			},
		},
		Config: ai.GenerateConfig{MaxOutputTokens: 800, Temperature: 0.5},
	})
	if err != nil {
		writeGenerationError(c, err)
		return
	}
	writeResultHeaders(c, result)
	respond.OK(c, textResponse{Text: strings.TrimSpace(result.Text)})
}

// parseBullets accepts either the documented {"bullets": [...]} envelope or a
// bare JSON array, since providers drift between the two.
func parseBullets(raw string) []string {
	var envelope bulletsResponse
	if ai.UnmarshalLoose(raw, &envelope) && len(envelope.Bullets) > 0 {
		return cleanBullets(envelope.Bullets)
	}
	var list []string
	if ai.UnmarshalLoose(raw, &list) {
		return cleanBullets(list)
	}
	return nil
}

func cleanBullets(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		b = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b), "-"))
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

func writeResultHeaders(c *gin.Context, result ai.Result) {
	if result.CacheHit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	if result.Fallback {
		c.Header("X-Fallback", "true")
	}
}

func writeGenerationError(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrMaxRetries) {
		respond.Error(c, http.StatusBadGateway, "generation_failed", "the AI provider is unavailable, try again shortly", nil)
		return
	}
	var provErr *ai.ProviderError
	if errors.As(err, &provErr) {
		respond.Error(c, http.StatusBadGateway, "generation_failed", "the AI provider rejected the request", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "generation failed", nil)
}
