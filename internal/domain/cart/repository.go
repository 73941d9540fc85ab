package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// AddOrIncrement inserts a (user, item) line with quantity 1, or atomically
	// bumps the quantity of the existing line. It returns the resulting row.
	AddOrIncrement(ctx context.Context, userID, itemID uuid.UUID) (*CartItem, error)

	// FindByID finds a cart line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// Delete removes a single cart line by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser returns the user's lines oldest first with Item loaded when it still exists
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*CartItem, error)

	// DeleteByIDs removes the given lines of userID. Missing ids are ignored,
	// so the call is safe to repeat.
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
