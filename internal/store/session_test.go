package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSession_TokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenSession(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if tok, err := s.Token(); err != nil || tok != "" {
		t.Fatalf("expected empty token, got %q (%v)", tok, err)
	}
	if err := s.SetToken("  abc  "); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen to make sure the token is persisted.
	s2, err := OpenSession(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSession (reopen): %v", err)
	}
	defer s2.Close()
	tok, err := s2.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "abc" {
		t.Fatalf("expected abc, got %q", tok)
	}

	if err := s2.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if tok, _ := s2.Token(); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
	// Clearing twice is fine.
	if err := s2.ClearToken(); err != nil {
		t.Fatalf("ClearToken (again): %v", err)
	}
}

func TestSession_RejectsEmptyToken(t *testing.T) {
	s, err := OpenSession(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer s.Close()
	if err := s.SetToken("   "); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestDescribeToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info := DescribeToken(signed, now)
	if !info.HasToken || info.Opaque {
		t.Fatalf("expected jwt token info, got %#v", info)
	}
	if info.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", info.Subject)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected expiry %v", info.ExpiresAt)
	}
	if info.Expired {
		t.Fatalf("token should not be expired yet")
	}
	if later := DescribeToken(signed, exp.Add(time.Second)); !later.Expired {
		t.Fatalf("expected token to be expired")
	}

	if opaque := DescribeToken("not-a-jwt", now); !opaque.HasToken || !opaque.Opaque {
		t.Fatalf("expected opaque token info, got %#v", opaque)
	}
	if none := DescribeToken("", now); none.HasToken {
		t.Fatalf("expected no token, got %#v", none)
	}
}
