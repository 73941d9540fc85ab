package identity

import (
	"context"

	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// publishEvents hands the aggregate's pending events to the publisher and
// clears them. Delivery failures are logged; the operation already happened.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, agg shared.AggregateRoot) {
	if err := shared.DrainEvents(ctx, publisher, agg); err != nil {
		logger.For(ctx, log).Error("Failed to publish domain events", zap.Error(err))
	}
}
