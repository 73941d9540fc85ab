package order

import (
	"context"
	"fmt"

	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CartClearPendingHandler retries the cart clear of an order whose checkout
// could not empty the cart. It is meant for asynchronous dispatch.
type CartClearPendingHandler struct {
	clearer *CartClearer
	logger  *zap.Logger
}

// NewCartClearPendingHandler creates a new handler
func NewCartClearPendingHandler(clearer *CartClearer, logger *zap.Logger) *CartClearPendingHandler {
	return &CartClearPendingHandler{
		clearer: clearer,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CartClearPendingHandler) EventTypes() []string {
	return []string{order.EventTypeCartClearPending}
}

// Handle clears the lines named by the event
func (h *CartClearPendingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*order.CartClearPendingEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	log := logger.For(ctx, h.logger).With(
		zap.String("order_id", e.AggregateID().String()),
		zap.String("user_id", e.UserID.String()),
	)

	removed, err := h.clearer.Clear(ctx, e.UserID, e.CartItemIDs)
	if err != nil {
		log.Error("Background cart clear failed; the customer can retry from the order page", zap.Error(err))
		return err
	}

	log.Info("Background cart clear succeeded", zap.Int64("removed", removed))
	return nil
}

var _ shared.EventHandler = (*CartClearPendingHandler)(nil)
