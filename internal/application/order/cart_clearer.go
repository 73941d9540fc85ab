package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CartClearer removes the cart lines consumed by an order. Only the listed
// ids of the listed user are deleted, so lines added after the snapshot
// survive and repeating a clear is harmless.
type CartClearer struct {
	cartRepo cart.Repository
	attempts int
	backoff  time.Duration
	metrics  CheckoutMetrics
	logger   *zap.Logger
}

// NewCartClearer creates a clearer that tries up to attempts times, waiting
// backoff, 2*backoff, ... between tries
func NewCartClearer(cartRepo cart.Repository, attempts int, backoff time.Duration, metrics CheckoutMetrics, logger *zap.Logger) *CartClearer {
	if attempts < 1 {
		attempts = 1
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &CartClearer{
		cartRepo: cartRepo,
		attempts: attempts,
		backoff:  backoff,
		metrics:  metrics,
		logger:   logger,
	}
}

// Clear deletes ids from userID's cart, retrying with linear backoff
func (c *CartClearer) Clear(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	log := logger.For(ctx, c.logger).With(zap.String("user_id", userID.String()))
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		removed, err := c.cartRepo.DeleteByIDs(ctx, userID, ids)
		if err == nil {
			result := ClearCleared
			if attempt > 1 {
				result = ClearRetried
			}
			c.metrics.RecordCartClear(ctx, result)
			return removed, nil
		}
		lastErr = err
		log.Warn("Cart clear attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			c.metrics.RecordCartClear(ctx, ClearFailed)
			return 0, ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	c.metrics.RecordCartClear(ctx, ClearFailed)
	return 0, lastErr
}
