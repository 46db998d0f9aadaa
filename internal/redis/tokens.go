package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore is a denylist of user ids whose bearer tokens are revoked.
// Tokens carry no server-side session, so erasing an account plants a
// revocation entry that outlives any token issued before the deletion.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func revocationKey(userID int64) string {
	return fmt.Sprintf("revoked:user:%d", userID)
}

// Revoke denylists all tokens of the user for ttl, which should cover the
// token lifetime.
func (s *TokenStore) Revoke(ctx context.Context, userID int64, ttl time.Duration) error {
	return s.rdb.Set(ctx, revocationKey(userID), "1", ttl).Err()
}

// IsRevoked reports whether the user's tokens are denylisted.
func (s *TokenStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	n, err := s.rdb.Exists(ctx, revocationKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
