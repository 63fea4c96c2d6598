package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func testResume() Resume {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Resume{
		ID:         "resume-1",
		UserID:     "user-1",
		Title:      "Backend Engineer",
		TemplateID: "modern",
		Content: Content{
			Basics:  Basics{FullName: "Ada Lovelace", Email: "ada@example.com"},
			Summary: "Engineer with a decade of experience.",
			Skills:  []string{"Go", "SQL"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPGRepoCreateMarshalsContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	resume := testResume()
	content, _ := json.Marshal(resume.Content)

	mock.ExpectExec("INSERT INTO resume_documents").
		WithArgs(
			resume.ID,
			resume.UserID,
			resume.Title,
			resume.TemplateID,
			content,
			resume.CreatedAt,
			resume.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDRoundTripsContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	resume := testResume()
	content, _ := json.Marshal(resume.Content)

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "template_id", "content", "created_at", "updated_at"}).
		AddRow(resume.ID, resume.UserID, resume.Title, resume.TemplateID, content, resume.CreatedAt, resume.UpdatedAt)
	mock.ExpectQuery("SELECT id, user_id, title, template_id, content, created_at, updated_at").
		WithArgs(resume.UserID, resume.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), resume.UserID, resume.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content.Basics.FullName != "Ada Lovelace" {
		t.Fatalf("content not round-tripped: %+v", got.Content)
	}
	if len(got.Content.Skills) != 2 {
		t.Fatalf("skills not round-tripped: %v", got.Content.Skills)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT id, user_id, title, template_id, content, created_at, updated_at").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "template_id", "content", "created_at", "updated_at"}))

	_, err = repo.GetByID(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateMissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	resume := testResume()

	mock.ExpectExec("UPDATE resume_documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), resume); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE resume_documents").
		WithArgs("user-1", "resume-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), "user-1", "resume-1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
