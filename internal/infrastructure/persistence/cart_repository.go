package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// AddOrIncrement upserts the (user, item) line. The increment happens inside
// the INSERT ... ON CONFLICT statement, so concurrent adds never create a
// second row or lose an increment.
func (r *GormCartRepository) AddOrIncrement(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	now := time.Now().UTC()
	model := models.CartItemModel{
		ID:        uuid.New(),
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + 1"),
			"updated_at": now,
		}),
	}).Create(&model).Error; err != nil {
		return nil, translateError(err)
	}

	var stored models.CartItemModel
	if err := db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&stored).Error; err != nil {
		return nil, translateError(err)
	}
	return stored.ToDomain(), nil
}

// FindByID finds a cart line by ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a single cart line by ID
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListByUser returns the user's lines oldest first. Items are fetched in a
// second query; a line whose item is gone keeps a nil Item.
func (r *GormCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*cart.CartItem, error) {
	db := r.db.WithContext(ctx)

	var rows []models.CartItemModel
	if err := db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*cart.CartItem{}, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		itemIDs = append(itemIDs, row.ItemID)
	}
	var items []models.ItemModel
	if err := db.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.ItemModel, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	lines := make([]*cart.CartItem, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
		if item, ok := byID[rows[i].ItemID]; ok {
			lines[i].Item = item.ToDomain()
		}
	}
	return lines, nil
}

// DeleteByIDs removes the given lines belonging to userID and reports how
// many rows went away. Lines already gone are not an error.
func (r *GormCartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItemModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
