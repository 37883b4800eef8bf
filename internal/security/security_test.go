package security

import (
	"errors"
	"testing"
	"time"
)

func TestVerifyPasswordHashed(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !IsHashed(hash) {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "S3CRET") {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyPasswordLegacyPlaintext(t *testing.T) {
	if !VerifyPassword("1234", "1234") {
		t.Fatalf("expected legacy plaintext match")
	}
	if VerifyPassword("1234", "1234 ") {
		t.Fatalf("legacy comparison must be exact")
	}
}

func TestOperatorTokenRoundTrip(t *testing.T) {
	token, err := GenerateOperatorToken("secret", 7, "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseOperatorToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.OperatorID != 7 || claims.Code != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestOperatorTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateOperatorToken("secret", 7, "01", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseOperatorToken("other", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOperatorTokenExpired(t *testing.T) {
	token, err := GenerateOperatorToken("secret", 7, "01", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseOperatorToken("secret", token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}
