package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// Create stores a new item
	Create(ctx context.Context, item *Item) error

	// Update writes the mutable fields of an existing item
	Update(ctx context.Context, item *Item) error

	// Delete removes an item by ID; cart lines referencing it are left dangling
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindAll returns items newest first with pagination and the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]*Item, int64, error)
}
