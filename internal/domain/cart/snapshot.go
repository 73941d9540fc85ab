package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
)

// Line is a cart line frozen at snapshot time. Item fields are copied so later
// edits to the live item cannot change what is charged.
type Line struct {
	CartItemID  uuid.UUID
	ItemID      uuid.UUID
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
	Quantity    int
}

// Snapshot is the immutable view of a cart taken at the start of checkout
type Snapshot struct {
	UserID  uuid.UUID
	TakenAt time.Time
	// Lines holds every priced line
	Lines []Line
	// DanglingIDs are lines whose item was deleted; they are not charged but are cleared
	DanglingIDs []uuid.UUID
}

// NewSnapshot copies the cart lines of userID
func NewSnapshot(userID uuid.UUID, items []*CartItem, now time.Time) *Snapshot {
	s := &Snapshot{
		UserID:  userID,
		TakenAt: now,
		Lines:   make([]Line, 0, len(items)),
	}
	for _, ci := range items {
		if ci.IsDangling() {
			s.DanglingIDs = append(s.DanglingIDs, ci.ID)
			continue
		}
		s.Lines = append(s.Lines, Line{
			CartItemID:  ci.ID,
			ItemID:      ci.ItemID,
			Title:       ci.Item.Title,
			Description: ci.Item.Description,
			Price:       ci.Item.Price,
			Image:       ci.Item.Image,
			LargeImage:  ci.Item.LargeImage,
			Quantity:    ci.Quantity,
		})
	}
	return s
}

// IsEmpty reports whether there is nothing to charge
func (s *Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Total sums price times quantity over the priced lines
func (s *Snapshot) Total(currency valueobject.Currency) (valueobject.Money, error) {
	total := valueobject.Zero(currency)
	for _, l := range s.Lines {
		if l.Quantity < 1 {
			return valueobject.Money{}, shared.NewDomainError(shared.CodeValidation,
				fmt.Sprintf("Cart line %s has an invalid quantity", l.CartItemID))
		}
		lineTotal, err := valueobject.NewMoney(l.Price, currency).Times(int64(l.Quantity))
		if err != nil {
			return valueobject.Money{}, shared.NewDomainErrorWithCause(shared.CodeValidation, "Cart total is out of range", err)
		}
		total, err = total.Add(lineTotal)
		if err != nil {
			return valueobject.Money{}, shared.NewDomainErrorWithCause(shared.CodeValidation, "Cart total is out of range", err)
		}
	}
	return total, nil
}

// CartItemIDs returns every line id consumed by checkout, dangling lines included
func (s *Snapshot) CartItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Lines)+len(s.DanglingIDs))
	for _, l := range s.Lines {
		ids = append(ids, l.CartItemID)
	}
	return append(ids, s.DanglingIDs...)
}

// Fingerprint identifies the cart contents, so a retried checkout of the same
// cart maps to the same payment attempt
func (s *Snapshot) Fingerprint() string {
	parts := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		parts = append(parts, fmt.Sprintf("%s:%s:%d:%d", l.CartItemID, l.ItemID, l.Quantity, l.Price))
	}
	sort.Strings(parts)

	h := sha256.New()
	h.Write([]byte(s.UserID.String()))
	for _, p := range parts {
		h.Write([]byte{'|'})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
