package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/islamipic/api/internal/domain"
)

const denyPrefix = "auth:deny:"

// TokenDenylist remembers revoked refresh-token jtis until the token would
// have expired on its own, so logout works without rotating stateless JWTs.
type TokenDenylist struct {
	client *Client
}

func NewTokenDenylist(c *Client) *TokenDenylist {
	return &TokenDenylist{client: c}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return domain.ErrMissingField("token_id")
	}

	ttl := time.Until(until)
	if ttl <= 0 {
		// Already expired; nothing to remember.
		return nil
	}

	if err := d.client.rdb.Set(ctx, denyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	_, err := d.client.rdb.Get(ctx, denyPrefix+tokenID).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, domain.ErrDBUnavailable(err)
	}
	return true, nil
}
