package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userID -> resumes
	gone map[string]bool     // resumeID -> soft-deleted
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Resume),
		gone: make(map[string]bool),
	}
}

// Create stores a resume for a user.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.UserID] = append(r.data[resume.UserID], resume)
	return nil
}

// GetByID returns a resume by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.gone[resumeID] {
		return Resume{}, ErrNotFound
	}
	for _, resume := range r.data[userID] {
		if resume.ID == resumeID {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

// ListByUser returns resumes most-recently-updated first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	var out []Resume
	for _, resume := range r.data[userID] {
		if !r.gone[resume.ID] {
			out = append(out, resume)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if offset >= len(out) {
		return []Resume{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Update overwrites an owned resume.
func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gone[resume.ID] {
		return ErrNotFound
	}
	list := r.data[resume.UserID]
	for i := range list {
		if list[i].ID == resume.ID {
			list[i] = resume
			r.data[resume.UserID] = list
			return nil
		}
	}
	return ErrNotFound
}

// SoftDelete marks a resume deleted.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resume := range r.data[userID] {
		if resume.ID == resumeID && !r.gone[resumeID] {
			r.gone[resumeID] = true
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
