package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront-sandbox",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: "u-1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Fatalf("expected user_id u-1, got %s", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected email %s", claims.Email)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}
}

func TestMintAccessTokenRequiresUser(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing user error")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestPeekExpiry(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	exp, err := PeekExpiry(token)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if exp.Sub(now.Add(30*time.Minute)).Abs() >= time.Second {
		t.Fatalf("unexpected exp %v", exp)
	}

	if _, err := PeekExpiry("abc123"); !errors.Is(err, ErrNotJWT) {
		t.Fatalf("expected ErrNotJWT for opaque token, got %v", err)
	}
	if _, err := PeekExpiry(strings.Repeat("x.", 2) + "x"); !errors.Is(err, ErrNotJWT) {
		t.Fatalf("expected ErrNotJWT for garbage segments, got %v", err)
	}
}

func TestExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().Add(-2 * time.Hour)
	stale, err := MintAccessToken(cfg, issued, AccessTokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	fresh, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	now := time.Now()
	if !Expired(stale, now) {
		t.Fatal("expected stale token to be expired")
	}
	if Expired(fresh, now) {
		t.Fatal("expected fresh token to be valid")
	}
	if Expired("abc123", now) {
		t.Fatal("opaque tokens are never expired")
	}
}
