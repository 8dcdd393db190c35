// Package reset stores single-use password reset tokens in redis with a TTL.
package reset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pwreset:"

// ErrNotFound is returned when a token is absent, expired, or already consumed.
var ErrNotFound = errors.New("reset token not found")

// Store maps opaque reset tokens to user IDs. Tokens expire with the redis
// TTL and are deleted on first consumption.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) key(token string) string {
	return keyPrefix + token
}

// Save records the token for userID with the given TTL.
func (s *Store) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// Consume resolves the token to a user ID and deletes it, so a token can be
// redeemed at most once.
func (s *Store) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}
