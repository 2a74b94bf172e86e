package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which product an Idempotency-Key produced.
// Key format: idem:product:<scope>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the product id recorded for (scope, key), if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, scope, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, idempotencyKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records productID for (scope, key). An existing entry is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, scope, key, productID string) error {
	if err := s.client.SetNX(ctx, idempotencyKey(scope, key), productID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idem:product:%s:%s", scope, key)
}
