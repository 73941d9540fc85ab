package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create stores a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update writes the mutable fields of an existing item. The owner column is
// never part of the update.
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"title":       item.Title,
			"description": item.Description,
			"price":       item.Price,
			"image":       item.Image,
			"large_image": item.LargeImage,
			"updated_at":  item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an item by ID
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an item by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns items newest first
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Item, int64, error) {
	filter = filter.Normalize(20, 100)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ItemModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*catalog.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, total, nil
}

// Ensure GormItemRepository implements catalog.ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
