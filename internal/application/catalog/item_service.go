package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultItemsPerPage matches the storefront's page size
const DefaultItemsPerPage = 4

const maxItemsPerPage = 100

var errItemNotFound = shared.NewDomainError(shared.CodeNotFound, "Item not found")

// ItemService handles catalog listings
type ItemService struct {
	itemRepo  catalog.ItemRepository
	storage   ImageStorage
	uploadTTL time.Duration
	events    shared.EventPublisher
	logger    *zap.Logger
}

// ItemServiceOption configures an ItemService
type ItemServiceOption func(*ItemService)

// WithImageStorage enables presigned image uploads and image cleanup on delete
func WithImageStorage(storage ImageStorage, uploadTTL time.Duration) ItemServiceOption {
	return func(s *ItemService) {
		s.storage = storage
		if uploadTTL > 0 {
			s.uploadTTL = uploadTTL
		}
	}
}

// WithEventPublisher publishes item events after each change
func WithEventPublisher(events shared.EventPublisher) ItemServiceOption {
	return func(s *ItemService) {
		s.events = events
	}
}

// NewItemService creates a new item service
func NewItemService(itemRepo catalog.ItemRepository, logger *zap.Logger, opts ...ItemServiceOption) *ItemService {
	s := &ItemService{
		itemRepo:  itemRepo,
		uploadTTL: 15 * time.Minute,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListItems returns items newest first along with the total count
func (s *ItemService) ListItems(ctx context.Context, filter shared.Filter) (*shared.Paginated[ItemView], error) {
	filter = filter.Normalize(DefaultItemsPerPage, maxItemsPerPage)
	items, total, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ToItemView(item))
	}
	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetItem returns a single item
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ToItemView(item)
	return &view, nil
}

// CreateItem lists a new item owned by the actor
func (s *ItemService) CreateItem(ctx context.Context, actor *identity.Actor, input CreateItemInput) (*ItemView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	item, err := catalog.NewItem(actor.UserID, input.Title, input.Description, input.Price, input.Image, input.LargeImage)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.For(ctx, s.logger).Error("Failed to create item", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, item)
	logger.For(ctx, s.logger).Info("Item created",
		zap.String("item_id", item.ID.String()),
		zap.String("owner_id", item.OwnerID.String()),
	)

	view := ToItemView(item)
	return &view, nil
}

// UpdateItem applies a partial update. The owner comes from storage.
func (s *ItemService) UpdateItem(ctx context.Context, actor *identity.Actor, id uuid.UUID, input UpdateItemInput) (*ItemView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := catalog.AuthorizeUpdate(item.OwnerID, actor); err != nil {
		return nil, err
	}

	if err := item.Apply(catalog.ItemUpdate{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		LargeImage:  input.LargeImage,
	}); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, item)
	view := ToItemView(item)
	return &view, nil
}

// DeleteItem removes an item after re-reading its owner from storage.
// Cart lines pointing at it are left dangling. Stored images are removed on a
// best-effort basis.
func (s *ItemService) DeleteItem(ctx context.Context, actor *identity.Actor, id uuid.UUID) (*ItemView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := catalog.AuthorizeDeletion(item.OwnerID, actor); err != nil {
		logger.For(ctx, s.logger).Warn("Item deletion denied",
			zap.String("item_id", item.ID.String()),
			zap.String("user_id", actor.UserID.String()),
		)
		return nil, err
	}

	if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}

	s.removeImages(ctx, item)
	item.AddDomainEvent(catalog.NewItemDeletedEvent(item, actor.UserID))
	s.publish(ctx, item)

	logger.For(ctx, s.logger).Info("Item deleted",
		zap.String("item_id", item.ID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)

	view := ToItemView(item)
	return &view, nil
}

// RequestImageUpload presigns a PUT for a new item image
func (s *ItemService) RequestImageUpload(ctx context.Context, actor *identity.Actor, fileName, contentType string) (*ImageUploadView, error) {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Image uploads are not configured")
	}

	key, err := catalog.ImageStorageKey(actor.UserID, fileName, contentType)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.uploadTTL)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to presign image upload", zap.String("storage_key", key), zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to prepare image upload", err)
	}

	return &ImageUploadView{
		UploadURL:  uploadURL,
		StorageKey: key,
		PublicURL:  s.storage.PublicURL(key),
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *ItemService) load(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) removeImages(ctx context.Context, item *catalog.Item) {
	if s.storage == nil {
		return
	}
	seen := make(map[string]struct{}, 2)
	for _, u := range []string{item.Image, item.LargeImage} {
		key, ok := s.storage.StorageKey(u)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			logger.For(ctx, s.logger).Warn("Failed to delete item image",
				zap.String("item_id", item.ID.String()),
				zap.String("storage_key", key),
				zap.Error(err),
			)
		}
	}
}

func (s *ItemService) publish(ctx context.Context, item *catalog.Item) {
	if err := shared.DrainEvents(ctx, s.events, item); err != nil {
		logger.For(ctx, s.logger).Error("Failed to publish item events", zap.Error(err))
	}
}
