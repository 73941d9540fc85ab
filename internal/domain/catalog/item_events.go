package catalog

import (
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// Aggregate type constant for Item
const AggregateTypeItem = "Item"

// Item domain event types
const (
	EventTypeItemCreated = "ItemCreated"
	EventTypeItemUpdated = "ItemUpdated"
	EventTypeItemDeleted = "ItemDeleted"
)

// ItemCreatedEvent is published when an item is listed
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	Title   string    `json:"title"`
	Price   int64     `json:"price"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID),
		Title:           item.Title,
		Price:           item.Price,
		OwnerID:         item.OwnerID,
	}
}

// ItemUpdatedEvent is published when an item changes
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Price int64  `json:"price"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(item *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, item.ID),
		Title:           item.Title,
		Price:           item.Price,
	}
}

// ItemDeletedEvent is published after an item is removed
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	DeletedBy uuid.UUID `json:"deleted_by"`
}

// NewItemDeletedEvent creates a new ItemDeletedEvent
func NewItemDeletedEvent(item *Item, deletedBy uuid.UUID) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, item.ID),
		DeletedBy:       deletedBy,
	}
}
