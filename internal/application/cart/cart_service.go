package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CartService mutates and reads the actor's cart
type CartService struct {
	cartRepo cart.Repository
	itemRepo catalog.ItemRepository
	currency valueobject.Currency
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo cart.Repository, itemRepo catalog.ItemRepository, currency valueobject.Currency, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
		currency: valueobject.ParseCurrency(string(currency)),
		logger:   logger,
	}
}

// AddToCart puts one unit of itemID into the actor's cart. Adding an item that
// is already there bumps its quantity; the repository upsert decides under
// concurrency.
func (s *CartService) AddToCart(ctx context.Context, actor *identity.Actor, itemID uuid.UUID) (*CartItemView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Item not found")
		}
		return nil, err
	}

	line, err := s.cartRepo.AddOrIncrement(ctx, actor.UserID, item.ID)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to add to cart",
			zap.String("item_id", item.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if line.Item == nil {
		line.Item = item
	}

	view := ToCartItemView(line)
	return &view, nil
}

// RemoveFromCart deletes one of the actor's cart lines
func (s *CartService) RemoveFromCart(ctx context.Context, actor *identity.Actor, cartItemID uuid.UUID) (*CartItemView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	line, err := s.cartRepo.FindByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "No cart item found")
		}
		return nil, err
	}
	if err := cart.AuthorizeRemoval(line, actor); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, line.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "No cart item found")
		}
		return nil, err
	}

	view := ToCartItemView(line)
	return &view, nil
}

// GetCart lists the actor's lines, dangling ones included, with the total of
// the priced lines
func (s *CartService) GetCart(ctx context.Context, actor *identity.Actor) (*CartView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	total, err := cart.NewSnapshot(actor.UserID, lines, time.Now()).Total(s.currency)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Items:          make([]CartItemView, 0, len(lines)),
		Total:          total.Cents(),
		Currency:       string(total.Currency()),
		TotalFormatted: total.String(),
	}
	for _, line := range lines {
		view.Items = append(view.Items, ToCartItemView(line))
		view.ItemCount += line.Quantity
	}
	return view, nil
}
