package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
)

// CreateItemInput contains the input for listing a new item
type CreateItemInput struct {
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
}

// UpdateItemInput is a partial update; nil fields are left unchanged
type UpdateItemInput struct {
	Title       *string
	Description *string
	Price       *int64
	Image       *string
	LargeImage  *string
}

// ItemView is the public representation of an item
type ItemView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	OwnerID     uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToItemView converts a domain item to its public representation
func ToItemView(item *catalog.Item) ItemView {
	return ItemView{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		Image:       item.Image,
		LargeImage:  item.LargeImage,
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ImageUploadView tells the client where to PUT an image and which URL to
// store on the item afterwards
type ImageUploadView struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	PublicURL  string    `json:"public_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}
