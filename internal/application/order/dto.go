package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/order"
)

// CheckoutInput contains the input for a checkout
type CheckoutInput struct {
	// PaymentToken is the card token produced by the storefront
	PaymentToken string
	// AttemptKey is the optional client Idempotency-Key header. It is mixed
	// into the cart fingerprint, never used as the processor key directly.
	AttemptKey string
}

// OrderItemView is one ordered line
type OrderItemView struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	Quantity    int       `json:"quantity"`
}

// OrderView is the public representation of an order
type OrderView struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Total          int64           `json:"total"`
	Currency       string          `json:"currency"`
	TotalFormatted string          `json:"total_formatted"`
	ChargeID       string          `json:"charge_id"`
	ItemCount      int             `json:"item_count"`
	Items          []OrderItemView `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToOrderView converts a domain order to its public representation
func ToOrderView(o *order.Order) OrderView {
	view := OrderView{
		ID:             o.ID,
		UserID:         o.UserID,
		Total:          o.Total,
		Currency:       string(o.Currency),
		TotalFormatted: o.Amount().String(),
		ChargeID:       o.ChargeID,
		ItemCount:      o.ItemCount(),
		Items:          make([]OrderItemView, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
	}
	for _, i := range o.Items {
		view.Items = append(view.Items, OrderItemView{
			ID:          i.ID,
			ItemID:      i.ItemID,
			Title:       i.Title,
			Description: i.Description,
			Price:       i.Price,
			Image:       i.Image,
			LargeImage:  i.LargeImage,
			Quantity:    i.Quantity,
		})
	}
	return view
}

// CheckoutResult is the outcome of a checkout that produced an order.
// CartClearPending is set when the order exists but the cart still holds
// the purchased lines.
type CheckoutResult struct {
	Order            OrderView `json:"order"`
	CartClearPending bool      `json:"cart_clear_pending"`
	Replayed         bool      `json:"-"`
}

// CartClearResult reports how many lines a clear removed
type CartClearResult struct {
	OrderID uuid.UUID `json:"order_id"`
	Removed int64     `json:"removed"`
}
