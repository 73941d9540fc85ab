package order

import (
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderPlaced      = "OrderPlaced"
	EventTypeCartClearPending = "CartClearPending"
)

// OrderPlacedEvent is published once an order is persisted
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Total    int64     `json:"total"`
	Currency string    `json:"currency"`
	ChargeID string    `json:"charge_id"`
	Lines    int       `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		Total:           o.Total,
		Currency:        string(o.Currency),
		ChargeID:        o.ChargeID,
		Lines:           len(o.Items),
	}
}

// CartClearPendingEvent is published when an order exists but its cart lines
// could not be removed
type CartClearPendingEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID   `json:"user_id"`
	CartItemIDs []uuid.UUID `json:"cart_item_ids"`
}

// NewCartClearPendingEvent creates a new CartClearPendingEvent
func NewCartClearPendingEvent(o *Order) *CartClearPendingEvent {
	return &CartClearPendingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartClearPending, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		CartItemIDs:     append([]uuid.UUID(nil), o.SourceCartItemIDs...),
	}
}
