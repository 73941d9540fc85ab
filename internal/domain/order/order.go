package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
)

// Order is an immutable record of a completed charge.
// It is the aggregate root for order operations.
type Order struct {
	shared.BaseAggregateRoot
	UserID   uuid.UUID
	Total    int64
	Currency valueobject.Currency
	ChargeID string
	// SourceCartItemIDs are the cart lines consumed by the checkout that produced
	// this order, kept so cart clearing can be retried.
	SourceCartItemIDs []uuid.UUID
	Items             []OrderItem
}

// OrderItem is a copy of an item as it was when ordered
type OrderItem struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
	Quantity    int
}

// Subtotal returns price times quantity
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ConfirmedCharge is the processor's answer to a successful charge
type ConfirmedCharge struct {
	ID     string
	Amount valueobject.Money
}

// NewOrder builds the order for a charged snapshot. The confirmed amount must
// equal the snapshot total; anything else means the processor charged a
// different amount than we asked for.
func NewOrder(snapshot *cart.Snapshot, charge ConfirmedCharge) (*Order, error) {
	if snapshot == nil || snapshot.IsEmpty() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Cannot create an order from an empty cart")
	}
	if strings.TrimSpace(charge.ID) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Charge id cannot be empty")
	}

	expected, err := snapshot.Total(charge.Amount.Currency())
	if err != nil {
		return nil, err
	}
	if !expected.Equals(charge.Amount) {
		return nil, shared.NewDomainError(shared.CodePaymentProcessorError,
			fmt.Sprintf("Charged amount %s does not match cart total %s", charge.Amount, expected))
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            snapshot.UserID,
		Total:             charge.Amount.Cents(),
		Currency:          charge.Amount.Currency(),
		ChargeID:          charge.ID,
		SourceCartItemIDs: snapshot.CartItemIDs(),
		Items:             make([]OrderItem, 0, len(snapshot.Lines)),
	}
	for _, l := range snapshot.Lines {
		order.Items = append(order.Items, OrderItem{
			ID:          uuid.New(),
			ItemID:      l.ItemID,
			Title:       l.Title,
			Description: l.Description,
			Price:       l.Price,
			Image:       l.Image,
			LargeImage:  l.LargeImage,
			Quantity:    l.Quantity,
		})
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Amount returns the order total as Money
func (o *Order) Amount() valueobject.Money {
	return valueobject.NewMoney(o.Total, o.Currency)
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, i := range o.Items {
		n += i.Quantity
	}
	return n
}

// AuthorizeView permits the order's owner or an ADMIN
func (o *Order) AuthorizeView(actor *identity.Actor) error {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.Owns(o.UserID) || actor.Permissions.Has(identity.PermissionAdmin) {
		return nil
	}
	return shared.NewDomainError(shared.CodeForbidden, "You cannot see this order")
}

// AuthorizeCartClear permits only the order's owner to retry clearing their cart
func (o *Order) AuthorizeCartClear(actor *identity.Actor) error {
	if err := identity.RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.Owns(o.UserID) {
		return shared.NewDomainError(shared.CodeForbidden, "This order is not yours")
	}
	return nil
}
