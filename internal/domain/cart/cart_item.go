package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
)

// CartItem is one line of a user's cart. At most one line exists per (user, item).
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ItemID    uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Item is the referenced listing, nil when it has been deleted or was not loaded
	Item *catalog.Item
}

// IsDangling reports whether the referenced item no longer exists
func (c *CartItem) IsDangling() bool {
	return c.Item == nil
}

// AuthorizeRemoval allows only the owning user to remove a cart line
func AuthorizeRemoval(line *CartItem, actor *identity.Actor) error {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.Owns(line.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "This cart item is not yours")
	}
	return nil
}
