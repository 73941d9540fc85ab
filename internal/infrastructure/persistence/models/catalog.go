package models

import (
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/catalog"
)

// ItemModel is the persistence model for the Item aggregate
type ItemModel struct {
	BaseModel
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	Price       int64     `gorm:"not null"`
	Image       string    `gorm:"type:varchar(1000)"`
	LargeImage  string    `gorm:"type:varchar(1000)"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:ix_items_owner_id"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseAggregateRoot: m.aggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		Image:             m.Image,
		LargeImage:        m.LargeImage,
		OwnerID:           m.OwnerID,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Title = i.Title
	m.Description = i.Description
	m.Price = i.Price
	m.Image = i.Image
	m.LargeImage = i.LargeImage
	m.OwnerID = i.OwnerID
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
