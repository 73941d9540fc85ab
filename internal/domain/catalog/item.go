package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
)

// Item is a listing in the storefront.
// It is the aggregate root for catalog operations.
type Item struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Price       int64 // smallest currency unit
	Image       string
	LargeImage  string
	OwnerID     uuid.UUID
}

// ItemUpdate carries a partial update; nil fields are left unchanged
type ItemUpdate struct {
	Title       *string
	Description *string
	Price       *int64
	Image       *string
	LargeImage  *string
}

// IsEmpty reports whether the update changes nothing
func (u ItemUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Image == nil && u.LargeImage == nil
}

// NewItem creates an item owned by ownerID
func NewItem(ownerID uuid.UUID, title, description string, price int64, image, largeImage string) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item owner cannot be empty")
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		Price:             price,
		Image:             strings.TrimSpace(image),
		LargeImage:        strings.TrimSpace(largeImage),
		OwnerID:           ownerID,
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// Apply validates and applies a partial update. The id and owner never change.
func (i *Item) Apply(update ItemUpdate) error {
	if update.IsEmpty() {
		return shared.NewDomainError(shared.CodeValidation, "Nothing to update")
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		i.Title = title
	}
	if update.Description != nil {
		if err := validateDescription(*update.Description); err != nil {
			return err
		}
		i.Description = *update.Description
	}
	if update.Price != nil {
		if err := validatePrice(*update.Price); err != nil {
			return err
		}
		i.Price = *update.Price
	}
	if update.Image != nil {
		i.Image = strings.TrimSpace(*update.Image)
	}
	if update.LargeImage != nil {
		i.LargeImage = strings.TrimSpace(*update.LargeImage)
	}
	i.Touch()

	i.AddDomainEvent(NewItemUpdatedEvent(i))
	return nil
}

// AuthorizeDeletion permits the owner or a holder of ADMIN or ITEMDELETE.
// ownerID must come from storage, never from the request.
func AuthorizeDeletion(ownerID uuid.UUID, actor *identity.Actor) error {
	return authorizeOwnerOr(ownerID, actor, "delete", identity.PermissionAdmin, identity.PermissionItemDelete)
}

// AuthorizeUpdate permits the owner or a holder of ADMIN or ITEMUPDATE
func AuthorizeUpdate(ownerID uuid.UUID, actor *identity.Actor) error {
	return authorizeOwnerOr(ownerID, actor, "update", identity.PermissionAdmin, identity.PermissionItemUpdate)
}

func authorizeOwnerOr(ownerID uuid.UUID, actor *identity.Actor, verb string, perms ...identity.Permission) error {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return err
	}
	if ownerID != uuid.Nil && actor.Owns(ownerID) {
		return nil
	}
	if actor.Permissions.Intersects(identity.NewPermissionSet(perms...)) {
		return nil
	}
	return shared.NewDomainError(shared.CodeForbidden, "You don't have permission to "+verb+" this item")
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError(shared.CodeValidation, "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Title cannot exceed 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError(shared.CodeValidation, "Description cannot be empty")
	}
	if len(description) > 5000 {
		return shared.NewDomainError(shared.CodeValidation, "Description cannot exceed 5000 characters")
	}
	return nil
}

func validatePrice(price int64) error {
	if price < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Price cannot be negative")
	}
	return nil
}
