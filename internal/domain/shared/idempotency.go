package shared

import (
	"context"
	"time"
)

// IdempotencyKeyStore remembers the idempotency key issued for a logical attempt
// so a retried attempt reuses the key instead of minting a new one.
type IdempotencyKeyStore interface {
	// Acquire returns the key stored under scope. When none exists, candidate is
	// stored with the given TTL and returned.
	Acquire(ctx context.Context, scope, candidate string, ttl time.Duration) (string, error)

	// Release forgets the key stored under scope
	Release(ctx context.Context, scope string) error

	// Close closes the store and releases resources
	Close() error
}
