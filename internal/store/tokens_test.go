package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/gestextintor/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	s := New(db.NewTestKV(t))
	ctx := context.Background()

	// Token should not be revoked initially.
	revoked, err := s.IsTokenRevoked(ctx, "test-jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not to be revoked")
	}

	if err := s.RevokeToken(ctx, "test-jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = s.IsTokenRevoked(ctx, "test-jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}

	// Different JTI should not be revoked.
	revoked, _ = s.IsTokenRevoked(ctx, "test-jti-2")
	if revoked {
		t.Error("expected different token not to be revoked")
	}
}

func TestRevokeTokenIdempotentAndPrunes(t *testing.T) {
	kv := db.NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	if err := s.RevokeToken(ctx, "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := s.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("first RevokeToken: %v", err)
	}
	if err := s.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	list, _, err := readList[revokedToken](ctx, kv, KeyRevokedTokens)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].JTI != "jti" {
		t.Errorf("expected only the live revocation, got %+v", list)
	}
}
