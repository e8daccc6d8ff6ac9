package auth

import (
	"testing"
	"time"
)

const testSigningSecret = "test-signing-secret"

func TestIssueAndValidateRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "catgallery-auth",
		Audience:      "catgallery-api",
		TokenTTL:      30 * time.Minute,
	})

	token, expiresIn, err := issuer.IssueToken(42, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if expiresIn != int64((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiry seconds: %d", expiresIn)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := issuedAt

	issuer := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "catgallery-auth",
		Audience:      "catgallery-api",
		TokenTTL:      time.Minute,
		Clock:         func() time.Time { return current },
	})

	token, _, err := issuer.IssueToken(1, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	current = issuedAt.Add(2 * time.Minute)
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateRejectsForeignAudience(t *testing.T) {
	issuer := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "catgallery-auth",
		Audience:      "catgallery-api",
	})
	foreign := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "catgallery-auth",
		Audience:      "another-service",
	})

	token, _, err := foreign.IssueToken(1, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatal("expected token for another audience to be rejected")
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	issuer := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "catgallery-auth",
		Audience:      "catgallery-api",
	})
	if _, _, err := issuer.IssueToken(0, "nobody"); err == nil {
		t.Fatal("expected issuing without a user id to fail")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword("secret1", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("expected mismatching password to fail")
	}
}
