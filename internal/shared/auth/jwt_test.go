package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifySession(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignSession(Claims{
		Email: "a@example.com",
		Name:  "Ada",
		Role:  "member",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "google:123",
		},
	})
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	claims, err := VerifySession(token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if claims.Subject != "google:123" {
		t.Fatalf("subject=%q", claims.Subject)
	}
	if claims.Email != "a@example.com" || claims.Role != "member" {
		t.Fatalf("claims not round-tripped: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 25*time.Hour {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestSignSessionRequiresSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := SignSession(Claims{Email: "a@example.com"}); err == nil {
		t.Fatal("expected error without subject")
	}
}

func TestVerifySessionRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignSession(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	if _, err := VerifySession(token + "x"); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := VerifySession(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestVerifySessionRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	past := time.Now().Add(-time.Hour)
	token, err := SignSession(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(past),
	}})
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	if _, err := VerifySession(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
