package token

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := Generate("u1", secret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := Verify(tok, secret, time.Minute)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := Generate("u1", []byte("secret-a"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(tok, []byte("secret-b"), time.Minute); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := Generate("u1", secret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(tok, ".")
	tampered := parts[0] + "x." + parts[1]
	if _, err := Verify(tampered, secret, time.Minute); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	if _, err := Verify("not-a-token", []byte("s"), time.Minute); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := Verify("a.b.c", []byte("s"), time.Minute); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyExpiry(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := Generate("u1", secret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// A negative ttl forces expiry; zero disables the check.
	if _, err := Verify(tok, secret, -time.Second); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, err := Verify(tok, secret, 0); err != nil {
		t.Fatalf("expected no expiry check, got %v", err)
	}
}
