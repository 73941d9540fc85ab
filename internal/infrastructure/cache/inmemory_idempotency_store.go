package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sickfits/backend/internal/domain/shared"
)

type entry struct {
	key       string
	expiresAt time.Time
}

// InMemoryIdempotencyStore implements shared.IdempotencyKeyStore with a map.
// It suits single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a store and starts its expiry sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Acquire implements shared.IdempotencyKeyStore
func (s *InMemoryIdempotencyStore) Acquire(_ context.Context, scope, candidate string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[scope]; ok && now.Before(e.expiresAt) {
		return e.key, nil
	}
	s.entries[scope] = entry{key: candidate, expiresAt: now.Add(ttl)}
	return candidate, nil
}

// Release implements shared.IdempotencyKeyStore
func (s *InMemoryIdempotencyStore) Release(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, scope)
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for scope, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, scope)
		}
	}
}

// Size returns the number of live and expired entries not yet swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ shared.IdempotencyKeyStore = (*InMemoryIdempotencyStore)(nil)
