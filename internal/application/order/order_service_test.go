package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPlacedOrder(t *testing.T, userID uuid.UUID) *order.Order {
	item := newCatalogItem(t, "Shoes", 1000)
	lines := []*cart.CartItem{{ID: uuid.New(), UserID: userID, ItemID: item.ID, Quantity: 1, Item: item}}
	o, err := order.NewOrder(cart.NewSnapshot(userID, lines, time.Now()), *confirmed("ch_"+uuid.NewString()[:8], 1000))
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestOrderService_GetOrder(t *testing.T) {
	ctx := context.Background()
	owner := &identity.Actor{UserID: uuid.New(), Permissions: identity.DefaultPermissions()}
	placed := newPlacedOrder(t, owner.UserID)

	repo := new(MockOrderRepository)
	repo.On("FindByID", ctx, placed.ID).Return(placed, nil)
	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	svc := NewOrderService(repo, nil, zap.NewNop())

	t.Run("owner", func(t *testing.T) {
		view, err := svc.GetOrder(ctx, owner, placed.ID)
		require.NoError(t, err)
		assert.Equal(t, placed.ChargeID, view.ChargeID)
	})

	t.Run("admin who is not the owner", func(t *testing.T) {
		admin := &identity.Actor{UserID: uuid.New(), Permissions: identity.NewPermissionSet(identity.PermissionAdmin)}
		_, err := svc.GetOrder(ctx, admin, placed.ID)
		require.NoError(t, err)
	})

	t.Run("someone else", func(t *testing.T) {
		other := &identity.Actor{UserID: uuid.New(), Permissions: identity.NewPermissionSet(identity.PermissionPermissionUpdate)}
		_, err := svc.GetOrder(ctx, other, placed.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, nil, placed.ID)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, owner, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_ListOrders_OnlyOwnOrders(t *testing.T) {
	ctx := context.Background()
	actor := &identity.Actor{UserID: uuid.New(), Permissions: identity.NewPermissionSet(identity.PermissionAdmin)}
	repo := new(MockOrderRepository)
	repo.On("FindByUser", ctx, actor.UserID, shared.Filter{Page: 1, PageSize: 20}).
		Return([]*order.Order{newPlacedOrder(t, actor.UserID)}, int64(1), nil)

	page, err := NewOrderService(repo, nil, zap.NewNop()).ListOrders(ctx, actor, shared.Filter{})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	repo.AssertExpectations(t)
}

func TestOrderService_RetryCartClear(t *testing.T) {
	ctx := context.Background()
	owner := &identity.Actor{UserID: uuid.New(), Permissions: identity.DefaultPermissions()}

	t.Run("owner clears the consumed lines", func(t *testing.T) {
		placed := newPlacedOrder(t, owner.UserID)
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		orderRepo.On("FindByID", ctx, placed.ID).Return(placed, nil)
		cartRepo.On("DeleteByIDs", ctx, owner.UserID, placed.SourceCartItemIDs).Return(int64(1), nil)

		svc := NewOrderService(orderRepo, NewCartClearer(cartRepo, 1, 0, nil, zap.NewNop()), zap.NewNop())
		result, err := svc.RetryCartClear(ctx, owner, placed.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Removed)
	})

	t.Run("admin cannot clear someone else's cart", func(t *testing.T) {
		placed := newPlacedOrder(t, owner.UserID)
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		orderRepo.On("FindByID", ctx, placed.ID).Return(placed, nil)

		admin := &identity.Actor{UserID: uuid.New(), Permissions: identity.NewPermissionSet(identity.PermissionAdmin)}
		svc := NewOrderService(orderRepo, NewCartClearer(cartRepo, 1, 0, nil, zap.NewNop()), zap.NewNop())
		_, err := svc.RetryCartClear(ctx, admin, placed.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		cartRepo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure is inconsistent", func(t *testing.T) {
		placed := newPlacedOrder(t, owner.UserID)
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		orderRepo.On("FindByID", ctx, placed.ID).Return(placed, nil)
		cartRepo.On("DeleteByIDs", ctx, owner.UserID, mock.Anything).Return(int64(0), errors.New("db gone"))

		svc := NewOrderService(orderRepo, NewCartClearer(cartRepo, 2, time.Millisecond, nil, zap.NewNop()), zap.NewNop())
		_, err := svc.RetryCartClear(ctx, owner, placed.ID)

		assert.ErrorIs(t, err, shared.ErrInconsistent)
		cartRepo.AssertNumberOfCalls(t, "DeleteByIDs", 2)
	})
}
