package users

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthPreservesRoleAndDeactivation(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	stored, err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if stored.Role != RoleMember {
		t.Fatalf("new user role=%q, want member", stored.Role)
	}

	// Promote, then log in again: role must survive the upsert.
	u, _ := repo.GetByID(ctx, "google:1")
	u.Role = RoleAdmin
	repo.users["google:1"] = u

	stored, err = svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com", Name: "Ada L."})
	if err != nil {
		t.Fatalf("second UpsertFromAuth: %v", err)
	}
	if stored.Role != RoleAdmin {
		t.Fatalf("role reset by login: %q", stored.Role)
	}
	if stored.Name != "Ada L." {
		t.Fatalf("profile fields should refresh on login: %q", stored.Name)
	}
}

func TestUpsertFromAuthRefusesDeactivated(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if err := svc.Deactivate(ctx, "google:1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	_, err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com"})
	if !errors.Is(err, ErrDeactivated) {
		t.Fatalf("expected ErrDeactivated, got %v", err)
	}
}

func TestDeactivateByEmail(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if err := svc.DeactivateByEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("DeactivateByEmail: %v", err)
	}

	u, err := repo.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !u.Deactivated {
		t.Fatal("user should be deactivated")
	}

	if err := svc.DeactivateByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
