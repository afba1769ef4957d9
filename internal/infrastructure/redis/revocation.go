package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"
)

const defaultPrefix = "useraccount:revoked"

var errEmptyTokenID = errors.New("token id must not be empty")

// RevocationStore keeps logged-out token ids until the token would have expired anyway.
type RevocationStore struct {
	client red.Cmdable
	prefix string
}

func NewRevocationStore(client red.Cmdable, keyPrefix string) *RevocationStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RevocationStore{client: client, prefix: prefix}
}

// Revoke is a no-op for tokens that are already expired.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	key := s.key(tokenID)
	if key == "" {
		return errEmptyTokenID
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token: %w", err)
	}

	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := s.key(tokenID)
	if key == "" {
		return false, errEmptyTokenID
	}

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists revoked token: %w", err)
	}

	return n > 0, nil
}

func (s *RevocationStore) key(tokenID string) string {
	id := strings.TrimSpace(tokenID)
	if id == "" {
		return ""
	}
	return s.prefix + ":" + id
}
