package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sickfits/backend/internal/domain/shared"
)

const defaultIdempotencyPrefix = "sickfits:checkout:attempt:"

// RedisIdempotencyStore implements shared.IdempotencyKeyStore on Redis so
// every replica hands out the same key for a retried attempt
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing Redis client
func NewRedisIdempotencyStore(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultIdempotencyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire implements shared.IdempotencyKeyStore with SET NX. When another
// caller won the race the stored key is read back. A key that expires between
// the two commands is retried once.
func (s *RedisIdempotencyStore) Acquire(ctx context.Context, scope, candidate string, ttl time.Duration) (string, error) {
	key := s.keyPrefix + scope

	for attempt := 0; attempt < 2; attempt++ {
		set, err := s.client.SetNX(ctx, key, candidate, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("failed to store idempotency key: %w", err)
		}
		if set {
			return candidate, nil
		}

		existing, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read idempotency key: %w", err)
		}
		return existing, nil
	}
	return "", fmt.Errorf("idempotency key for %s kept expiring", scope)
}

// Release implements shared.IdempotencyKeyStore
func (s *RedisIdempotencyStore) Release(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, s.keyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner
func (s *RedisIdempotencyStore) Close() error {
	return nil
}

var _ shared.IdempotencyKeyStore = (*RedisIdempotencyStore)(nil)
