package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the key-value backed stores used by the API
type Stores struct {
	Idempotency shared.IdempotencyKeyStore
	Blacklist   auth.TokenBlacklist

	client *redis.Client
}

// Close releases the stores and the Redis connection, if any
func (s *Stores) Close() error {
	err := s.Idempotency.Close()
	if s.client != nil {
		if cerr := s.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// StoreFactoryOption configures NewStores
type StoreFactoryOption func(*storeFactory)

type storeFactory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger for store creation
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *storeFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *storeFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewStores builds Redis-backed stores when Redis is enabled and reachable,
// in-memory stores otherwise
func NewStores(ctx context.Context, cfg config.RedisConfig, opts ...StoreFactoryOption) (*Stores, error) {
	f := &storeFactory{
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory session and idempotency stores")
		return inMemoryStores(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Revoked sessions and checkout keys will not be shared across instances.",
			zap.Error(err),
		)
		return inMemoryStores(), nil
	}

	f.logger.Info("using Redis session and idempotency stores", zap.String("addr", cfg.Addr()))
	return &Stores{
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Blacklist:   auth.NewRedisTokenBlacklist(client),
		client:      client,
	}, nil
}

func inMemoryStores() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
	}
}
