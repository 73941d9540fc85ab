package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// Create stores the order and its items in one transaction. A duplicate
	// charge id yields shared.ErrAlreadyExists.
	Create(ctx context.Context, o *Order) error

	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByChargeID loads the order created for a charge
	FindByChargeID(ctx context.Context, chargeID string) (*Order, error)

	// FindByUser lists a user's orders newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)
}
