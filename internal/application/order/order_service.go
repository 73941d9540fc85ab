package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errOrderNotFound = shared.NewDomainError(shared.CodeNotFound, "Order not found")

// OrderService reads orders and retries pending cart clears
type OrderService struct {
	orderRepo order.Repository
	clearer   *CartClearer
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo order.Repository, clearer *CartClearer, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		clearer:   clearer,
		logger:    logger,
	}
}

// ListOrders returns the actor's own orders newest first
func (s *OrderService) ListOrders(ctx context.Context, actor *identity.Actor, filter shared.Filter) (*shared.Paginated[OrderView], error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	filter = filter.Normalize(20, 100)
	orders, total, err := s.orderRepo.FindByUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ToOrderView(o))
	}
	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetOrder returns an order to its owner or to an ADMIN
func (s *OrderService) GetOrder(ctx context.Context, actor *identity.Actor, id uuid.UUID) (*OrderView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.AuthorizeView(actor); err != nil {
		return nil, err
	}

	view := ToOrderView(o)
	return &view, nil
}

// RetryCartClear removes the cart lines an order consumed. Repeating it is
// harmless: lines already gone are skipped.
func (s *OrderService) RetryCartClear(ctx context.Context, actor *identity.Actor, id uuid.UUID) (*CartClearResult, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.AuthorizeCartClear(actor); err != nil {
		return nil, err
	}

	removed, err := s.clearer.Clear(ctx, o.UserID, o.SourceCartItemIDs)
	if err != nil {
		logger.For(ctx, s.logger).Error("Cart clear retry failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainErrorWithCause(shared.CodeInconsistent, "Your cart could not be emptied", err)
	}

	return &CartClearResult{OrderID: o.ID, Removed: removed}, nil
}

func (s *OrderService) load(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
