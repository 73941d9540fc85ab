package models

import (
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	BaseModel
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index:ix_orders_user_id"`
	Total             int64            `gorm:"not null"`
	Currency          string           `gorm:"type:varchar(3);not null"`
	ChargeID          string           `gorm:"type:varchar(255);not null;uniqueIndex:ux_orders_charge_id"`
	SourceCartItemIDs string           `gorm:"type:text;not null;default:''"`
	Items             []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line snapshot
type OrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index:ix_order_items_order_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	Price       int64     `gorm:"not null"`
	Image       string    `gorm:"type:varchar(1000)"`
	LargeImage  string    `gorm:"type:varchar(1000)"`
	Quantity    int       `gorm:"not null"`
	Position    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model and its loaded items to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.aggregateRoot(),
		UserID:            m.UserID,
		Total:             m.Total,
		Currency:          valueobject.ParseCurrency(m.Currency),
		ChargeID:          m.ChargeID,
		SourceCartItemIDs: SplitUUIDs(m.SourceCartItemIDs),
		Items:             make([]order.OrderItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, order.OrderItem{
			ID:          it.ID,
			ItemID:      it.ItemID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Image:       it.Image,
			LargeImage:  it.LargeImage,
			Quantity:    it.Quantity,
		})
	}
	return o
}

// OrderModelFromDomain creates a persistence model, items included, from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		UserID:            o.UserID,
		Total:             o.Total,
		Currency:          string(o.Currency),
		ChargeID:          o.ChargeID,
		SourceCartItemIDs: JoinUUIDs(o.SourceCartItemIDs),
		Items:             make([]OrderItemModel, 0, len(o.Items)),
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	for i, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          it.ID,
			OrderID:     o.ID,
			ItemID:      it.ItemID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Image:       it.Image,
			LargeImage:  it.LargeImage,
			Quantity:    it.Quantity,
			Position:    i,
		})
	}
	return m
}

// All lists every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&ItemModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
