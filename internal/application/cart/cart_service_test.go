package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) AddOrIncrement(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*cart.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Item), args.Get(1).(int64), args.Error(2)
}

func newItem(t *testing.T, price int64) *catalog.Item {
	item, err := catalog.NewItem(uuid.New(), "Shoes", "Nice shoes", price, "", "")
	require.NoError(t, err)
	return item
}

func newActor() *identity.Actor {
	return &identity.Actor{UserID: uuid.New(), Permissions: identity.DefaultPermissions()}
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("adds the item", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		itemRepo := new(MockItemRepository)
		actor := newActor()
		item := newItem(t, 1500)
		line := &cart.CartItem{ID: uuid.New(), UserID: actor.UserID, ItemID: item.ID, Quantity: 2}

		itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		cartRepo.On("AddOrIncrement", ctx, actor.UserID, item.ID).Return(line, nil)

		view, err := NewCartService(cartRepo, itemRepo, valueobject.USD, zap.NewNop()).AddToCart(ctx, actor, item.ID)

		require.NoError(t, err)
		assert.Equal(t, 2, view.Quantity)
		require.NotNil(t, view.Item)
		assert.Equal(t, int64(1500), view.Item.Price)
	})

	t.Run("unknown item", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		itemRepo := new(MockItemRepository)
		id := uuid.New()
		itemRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewCartService(cartRepo, itemRepo, valueobject.USD, zap.NewNop()).AddToCart(ctx, newActor(), id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		cartRepo.AssertNotCalled(t, "AddOrIncrement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := NewCartService(new(MockCartRepository), new(MockItemRepository), valueobject.USD, zap.NewNop()).
			AddToCart(ctx, nil, uuid.New())
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}

func TestCartService_RemoveFromCart(t *testing.T) {
	ctx := context.Background()
	actor := newActor()

	t.Run("owner removes the line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		line := &cart.CartItem{ID: uuid.New(), UserID: actor.UserID, ItemID: uuid.New(), Quantity: 1}
		cartRepo.On("FindByID", ctx, line.ID).Return(line, nil)
		cartRepo.On("Delete", ctx, line.ID).Return(nil)

		view, err := NewCartService(cartRepo, new(MockItemRepository), valueobject.USD, zap.NewNop()).RemoveFromCart(ctx, actor, line.ID)

		require.NoError(t, err)
		assert.Equal(t, line.ID, view.ID)
		assert.Nil(t, view.Item)
		cartRepo.AssertExpectations(t)
	})

	t.Run("someone else's line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		line := &cart.CartItem{ID: uuid.New(), UserID: uuid.New(), ItemID: uuid.New(), Quantity: 1}
		cartRepo.On("FindByID", ctx, line.ID).Return(line, nil)

		_, err := NewCartService(cartRepo, new(MockItemRepository), valueobject.USD, zap.NewNop()).RemoveFromCart(ctx, actor, line.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		cartRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		id := uuid.New()
		cartRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewCartService(cartRepo, new(MockItemRepository), valueobject.USD, zap.NewNop()).RemoveFromCart(ctx, actor, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_GetCart_IncludesDanglingLinesButPricesOnlyLiveOnes(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	actor := newActor()
	item := newItem(t, 1250)
	lines := []*cart.CartItem{
		{ID: uuid.New(), UserID: actor.UserID, ItemID: item.ID, Quantity: 2, Item: item},
		{ID: uuid.New(), UserID: actor.UserID, ItemID: uuid.New(), Quantity: 3},
	}
	cartRepo.On("ListByUser", ctx, actor.UserID).Return(lines, nil)

	view, err := NewCartService(cartRepo, new(MockItemRepository), valueobject.USD, zap.NewNop()).GetCart(ctx, actor)

	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, int64(2500), view.Total)
	assert.Equal(t, "usd", view.Currency)
	assert.Equal(t, "25.00 USD", view.TotalFormatted)
	assert.Equal(t, 5, view.ItemCount)
	assert.Nil(t, view.Items[1].Item)
}
