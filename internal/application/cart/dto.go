package cart

import (
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/sickfits/backend/internal/application/catalog"
	"github.com/sickfits/backend/internal/domain/cart"
)

// CartItemView is one cart line. Item is nil when the listing was deleted.
type CartItemView struct {
	ID        uuid.UUID            `json:"id"`
	ItemID    uuid.UUID            `json:"item_id"`
	Quantity  int                  `json:"quantity"`
	Item      *catalogapp.ItemView `json:"item"`
	CreatedAt time.Time            `json:"created_at"`
}

// ToCartItemView converts a cart line to its public representation
func ToCartItemView(line *cart.CartItem) CartItemView {
	view := CartItemView{
		ID:        line.ID,
		ItemID:    line.ItemID,
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
	}
	if line.Item != nil {
		item := catalogapp.ToItemView(line.Item)
		view.Item = &item
	}
	return view
}

// CartView is the actor's cart with its server-computed total
type CartView struct {
	Items          []CartItemView `json:"items"`
	ItemCount      int            `json:"item_count"`
	Total          int64          `json:"total"`
	Currency       string         `json:"currency"`
	TotalFormatted string         `json:"total_formatted"`
}
