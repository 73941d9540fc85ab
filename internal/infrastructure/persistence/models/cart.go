package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
)

// CartItemModel is the persistence model for a cart line. ItemID carries no
// foreign key so a line survives the deletion of its item as a dangling line.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_item,priority:1"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_item,priority:2"`
	Quantity  int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem without its Item
func (m *CartItemModel) ToDomain() *cart.CartItem {
	return &cart.CartItem{
		ID:        m.ID,
		UserID:    m.UserID,
		ItemID:    m.ItemID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
