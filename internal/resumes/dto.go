package resumes

import "time"

type createRequest struct {
	Title      string  `json:"title" binding:"required"`
	TemplateID string  `json:"templateId"`
	Content    Content `json:"content"`
}

type updateRequest struct {
	Title      string  `json:"title" binding:"required"`
	TemplateID string  `json:"templateId"`
	Content    Content `json:"content"`
}

type resumeResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"templateId"`
	Content    Content   `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listItemResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"templateId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toResumeResponse(r Resume) resumeResponse {
	return resumeResponse{
		ID:         r.ID,
		Title:      r.Title,
		TemplateID: r.TemplateID,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toListResponse(items []Resume) []listItemResponse {
	out := make([]listItemResponse, 0, len(items))
	for _, r := range items {
		out = append(out, listItemResponse{
			ID:         r.ID,
			Title:      r.Title,
			TemplateID: r.TemplateID,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out
}
