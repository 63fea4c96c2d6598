package resumes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/util"
)

const (
	maxTitleLen   = 200
	maxSkills     = 50
	maxExperience = 30
	maxEducation  = 20
)

// Service implements resume CRUD on top of a Repo.
type Service struct {
	repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and stores a new resume for the user.
func (s *Service) Create(ctx context.Context, userID, title, templateID string, content Content) (Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLen {
		return Resume{}, ErrInvalidInput
	}
	if templateID == "" {
		templateID = "modern"
	}
	if err := validateContent(&content); err != nil {
		return Resume{}, err
	}

	now := s.now().UTC()
	resume := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		TemplateID: templateID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a resume owned by the user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes, most-recently-updated first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Update replaces title, template, and content of an owned resume.
func (s *Service) Update(ctx context.Context, userID, resumeID, title, templateID string, content Content) (Resume, error) {
	existing, err := s.repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLen {
		return Resume{}, ErrInvalidInput
	}
	if templateID == "" {
		templateID = existing.TemplateID
	}
	if err := validateContent(&content); err != nil {
		return Resume{}, err
	}

	existing.Title = title
	existing.TemplateID = templateID
	existing.Content = content
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return Resume{}, err
	}
	return existing, nil
}

// Delete soft-deletes an owned resume.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if resumeID == "" {
		return ErrInvalidInput
	}
	return s.repo.SoftDelete(ctx, userID, resumeID)
}

// validateContent bounds list sizes and scrubs free text in place.
func validateContent(c *Content) error {
	if len(c.Skills) > maxSkills || len(c.Experience) > maxExperience || len(c.Education) > maxEducation {
		return ErrInvalidInput
	}
	c.Summary = util.SanitizeFreeText(c.Summary)
	c.Basics.FullName = util.SanitizeFreeText(c.Basics.FullName)
	c.Basics.Headline = util.SanitizeFreeText(c.Basics.Headline)
	for i := range c.Experience {
		for j := range c.Experience[i].Bullets {
			c.Experience[i].Bullets[j] = util.SanitizeFreeText(c.Experience[i].Bullets[j])
		}
	}
	for i := range c.Education {
		c.Education[i].Description = util.SanitizeFreeText(c.Education[i].Description)
	}
	return nil
}
