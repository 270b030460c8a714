package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42, "someone@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(secret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Email != "someone@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("right"), 1, "a@b.c", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := VerifyToken([]byte("wrong"), token); err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := GenerateToken([]byte("secret"), 1, "a@b.c", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := VerifyToken([]byte("secret"), token); err == nil {
		t.Error("expected verification to fail for expired token")
	}
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	if _, err := GenerateToken(nil, 1, "a@b.c", time.Hour); err == nil {
		t.Error("expected error without secret")
	}
}
