package cache

import (
	"context"
	"time"
)

// revokedTokenPrefix is the Redis key prefix for revoked token IDs.
const revokedTokenPrefix = "revoked:jti:"

// RevokeToken adds a token ID to the revocation denylist.
// The entry expires together with the token itself, so the denylist never
// grows beyond the set of still-live tokens.
func (c *Cache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to deny.
		return nil
	}
	return c.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token ID is on the denylist.
func (c *Cache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
