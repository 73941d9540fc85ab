package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Item), args.Get(1).(int64), args.Error(2)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) PublicURL(storageKey string) string {
	return "https://cdn.example.com/" + storageKey
}

func (m *MockImageStorage) StorageKey(publicURL string) (string, bool) {
	key, ok := strings.CutPrefix(publicURL, "https://cdn.example.com/")
	return key, ok && key != ""
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func userActor(perms ...identity.Permission) *identity.Actor {
	set := identity.DefaultPermissions()
	if len(perms) > 0 {
		set = identity.NewPermissionSet(perms...)
	}
	return &identity.Actor{UserID: uuid.New(), Email: "user@example.com", Permissions: set}
}

func createTestItem(t *testing.T, ownerID uuid.UUID) *catalog.Item {
	item, err := catalog.NewItem(ownerID, "Fancy Shoes", "Very fancy", 5000, "", "")
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestItemService_ListItems_DefaultsToStorefrontPageSize(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	items := []*catalog.Item{createTestItem(t, uuid.New())}
	repo.On("FindAll", ctx, shared.Filter{Page: 1, PageSize: DefaultItemsPerPage}).Return(items, int64(9), nil)

	page, err := NewItemService(repo, zap.NewNop()).ListItems(ctx, shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(9), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestItemService_GetItem_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := NewItemService(repo, zap.NewNop()).GetItem(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("owner comes from actor", func(t *testing.T) {
		repo := new(MockItemRepository)
		actor := userActor()
		repo.On("Create", ctx, mock.MatchedBy(func(item *catalog.Item) bool {
			return item.OwnerID == actor.UserID
		})).Return(nil)

		view, err := NewItemService(repo, zap.NewNop()).CreateItem(ctx, actor, CreateItemInput{
			Title: "Hat", Description: "A hat", Price: 1200,
		})

		require.NoError(t, err)
		assert.Equal(t, actor.UserID, view.OwnerID)
		repo.AssertExpectations(t)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := NewItemService(new(MockItemRepository), zap.NewNop()).CreateItem(ctx, nil, CreateItemInput{Title: "Hat"})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewItemService(new(MockItemRepository), zap.NewNop()).CreateItem(ctx, userActor(), CreateItemInput{
			Title: "Hat", Description: "A hat", Price: -1,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	owner := userActor()
	title := "Renamed"

	t.Run("owner may update", func(t *testing.T) {
		repo := new(MockItemRepository)
		item := createTestItem(t, owner.UserID)
		repo.On("FindByID", ctx, item.ID).Return(item, nil)
		repo.On("Update", ctx, item).Return(nil)

		view, err := NewItemService(repo, zap.NewNop()).UpdateItem(ctx, owner, item.ID, UpdateItemInput{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", view.Title)
		assert.Equal(t, int64(5000), view.Price)
	})

	t.Run("item updater may update", func(t *testing.T) {
		repo := new(MockItemRepository)
		item := createTestItem(t, owner.UserID)
		repo.On("FindByID", ctx, item.ID).Return(item, nil)
		repo.On("Update", ctx, item).Return(nil)

		_, err := NewItemService(repo, zap.NewNop()).UpdateItem(ctx, userActor(identity.PermissionItemUpdate), item.ID, UpdateItemInput{Title: &title})
		require.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		repo := new(MockItemRepository)
		item := createTestItem(t, owner.UserID)
		repo.On("FindByID", ctx, item.ID).Return(item, nil)

		_, err := NewItemService(repo, zap.NewNop()).UpdateItem(ctx, userActor(), item.ID, UpdateItemInput{Title: &title})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	owner := userActor()

	t.Run("owner deletes and images are removed", func(t *testing.T) {
		repo := new(MockItemRepository)
		storage := new(MockImageStorage)
		item := createTestItem(t, owner.UserID)
		item.Image = "https://cdn.example.com/items/a.jpg"
		item.LargeImage = "https://elsewhere.example.com/b.jpg"
		repo.On("FindByID", ctx, item.ID).Return(item, nil)
		repo.On("Delete", ctx, item.ID).Return(nil)
		storage.On("DeleteObject", ctx, "items/a.jpg").Return(errors.New("transient"))

		view, err := NewItemService(repo, zap.NewNop(), WithImageStorage(storage, 0)).DeleteItem(ctx, owner, item.ID)

		require.NoError(t, err)
		assert.Equal(t, item.ID, view.ID)
		storage.AssertNumberOfCalls(t, "DeleteObject", 1)
	})

	t.Run("admin may delete", func(t *testing.T) {
		repo := new(MockItemRepository)
		item := createTestItem(t, owner.UserID)
		repo.On("FindByID", ctx, item.ID).Return(item, nil)
		repo.On("Delete", ctx, item.ID).Return(nil)

		_, err := NewItemService(repo, zap.NewNop()).DeleteItem(ctx, userActor(identity.PermissionAdmin), item.ID)
		require.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		repo := new(MockItemRepository)
		item := createTestItem(t, owner.UserID)
		repo.On("FindByID", ctx, item.ID).Return(item, nil)

		_, err := NewItemService(repo, zap.NewNop()).DeleteItem(ctx, userActor(identity.PermissionItemCreate), item.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		repo := new(MockItemRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewItemService(repo, zap.NewNop()).DeleteItem(ctx, owner, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestItemService_RequestImageUpload(t *testing.T) {
	ctx := context.Background()
	actor := userActor()
	expires := time.Now().Add(10 * time.Minute)

	t.Run("presigns an image key", func(t *testing.T) {
		storage := new(MockImageStorage)
		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png", 10*time.Minute).
			Return("https://upload.example.com/signed", expires, nil)

		view, err := NewItemService(new(MockItemRepository), zap.NewNop(), WithImageStorage(storage, 10*time.Minute)).
			RequestImageUpload(ctx, actor, "My Shoes.png", "image/png")

		require.NoError(t, err)
		assert.Equal(t, "https://upload.example.com/signed", view.UploadURL)
		assert.True(t, strings.HasPrefix(view.StorageKey, "items/"+actor.UserID.String()+"/"))
		assert.True(t, strings.HasSuffix(view.StorageKey, "-my-shoes.png"))
		assert.Equal(t, "https://cdn.example.com/"+view.StorageKey, view.PublicURL)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		storage := new(MockImageStorage)
		_, err := NewItemService(new(MockItemRepository), zap.NewNop(), WithImageStorage(storage, 0)).
			RequestImageUpload(ctx, actor, "run.sh", "application/x-sh")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("storage disabled", func(t *testing.T) {
		_, err := NewItemService(new(MockItemRepository), zap.NewNop()).RequestImageUpload(ctx, actor, "a.png", "image/png")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := NewItemService(new(MockItemRepository), zap.NewNop()).RequestImageUpload(ctx, nil, "a.png", "image/png")
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}
