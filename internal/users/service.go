package users

import (
	"context"
	"errors"
	"strings"
)

// ErrDeactivated marks a user account that has been disabled.
var ErrDeactivated = errors.New("user is deactivated")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the identity from OAuth so resume and usage
// ownership stay stable across logins. Returns the stored user, including any
// role or deactivation state the login must honor.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return User{}, errors.New("user id and email are required")
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	stored, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	if stored.Deactivated {
		return User{}, ErrDeactivated
	}
	return stored, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Deactivate disables an account. Existing sessions expire on their own; new
// logins are refused.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrNotFound
	}
	return s.Repo.SetDeactivated(ctx, userID, true)
}

// DeactivateByEmail is used by identity webhooks that only carry an email.
func (s *Service) DeactivateByEmail(ctx context.Context, email string) error {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Repo.SetDeactivated(ctx, user.ID, true)
}
