package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resume_documents (id, user_id, title, template_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	content, err := json.Marshal(resume.Content)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.TemplateID,
		content,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, title, template_id, content, created_at, updated_at
FROM resume_documents
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`

	var resume Resume
	var content []byte
	err := r.DB.QueryRowContext(ctx, query, userID, resumeID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.TemplateID,
		&content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if err := json.Unmarshal(content, &resume.Content); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// ListByUser lists resumes ordered most-recently-updated first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, title, template_id, content, created_at, updated_at
FROM resume_documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var resume Resume
		var content []byte
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.Title,
			&resume.TemplateID,
			&content,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(content, &resume.Content); err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update overwrites title, template, and content for an owned resume.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resume_documents
SET title = $1, template_id = $2, content = $3, updated_at = $4
WHERE user_id = $5 AND id = $6 AND deleted_at IS NULL`

	content, err := json.Marshal(resume.Content)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(
		ctx,
		query,
		resume.Title,
		resume.TemplateID,
		content,
		resume.UpdatedAt,
		resume.UserID,
		resume.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a resume deleted; expiry of the row is a data-lifecycle concern.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	const query = `
UPDATE resume_documents
SET deleted_at = NOW()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, userID, resumeID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
