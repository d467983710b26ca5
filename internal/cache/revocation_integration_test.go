//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/taskpad/taskpad/internal/testutil"
)

// ============================================================================
// Token Revocation Integration Tests
// ============================================================================

func TestIntegrationRevocation_RevokeAndCheck(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	tokenID := "jti-revoke-check"

	revoked, err := c.IsTokenRevoked(ctx, tokenID)
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if revoked {
		t.Error("token should not be revoked before RevokeToken")
	}

	if err := c.RevokeToken(ctx, tokenID, time.Minute); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	revoked, err = c.IsTokenRevoked(ctx, tokenID)
	if err != nil {
		t.Fatalf("IsTokenRevoked (after revoke) failed: %v", err)
	}
	if !revoked {
		t.Error("token should be revoked after RevokeToken")
	}
}

func TestIntegrationRevocation_EntryExpires(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	tokenID := "jti-short-lived"

	if err := c.RevokeToken(ctx, tokenID, 100*time.Millisecond); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	revoked, err := c.IsTokenRevoked(ctx, tokenID)
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if revoked {
		t.Error("revocation entry should expire with the token")
	}
}

func TestIntegrationRevocation_NonPositiveTTLIsNoop(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	// An already-expired token needs no denylist entry.
	if err := c.RevokeToken(ctx, "jti-expired", -time.Minute); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	revoked, err := c.IsTokenRevoked(ctx, "jti-expired")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if revoked {
		t.Error("non-positive TTL should not create a denylist entry")
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}
