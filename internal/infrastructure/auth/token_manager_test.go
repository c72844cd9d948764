package auth

import (
	"testing"
	"time"
)

func TestMintParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Mint(42)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	userID, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected subject 42, got %d", userID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := tm.Parse(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Mint(7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected error for token signed with another secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.Parse("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 90*time.Minute)
	if got := tm.TTL(); got != 90*time.Minute {
		t.Fatalf("expected 90m TTL, got %s", got)
	}
}
