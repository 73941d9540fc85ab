package valueobject

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a lowercase ISO 4217 currency code as the payment processor expects it
type Currency string

const (
	USD Currency = "usd"
	EUR Currency = "eur"
	GBP Currency = "gbp"
	CAD Currency = "cad"
	JPY Currency = "jpy"
)

// DefaultCurrency is the default currency for the storefront
const DefaultCurrency = USD

// ErrAmountOverflow is returned when an amount no longer fits in int64 minor units
var ErrAmountOverflow = errors.New("money amount overflows int64")

// zeroDecimalCurrencies have no minor unit
var zeroDecimalCurrencies = map[Currency]bool{
	JPY: true,
}

// ParseCurrency normalises a currency code
func ParseCurrency(code string) Currency {
	c := Currency(strings.ToLower(strings.TrimSpace(code)))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// Money is an immutable amount in the smallest currency unit (cents)
type Money struct {
	cents    int64
	currency Currency
}

// NewMoney creates Money from an amount in minor units
func NewMoney(cents int64, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{cents: cents, currency: currency}
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return NewMoney(0, currency)
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// Add returns the sum of both amounts. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.New("cannot add money with different currencies")
	}
	if (other.cents > 0 && m.cents > math.MaxInt64-other.cents) ||
		(other.cents < 0 && m.cents < math.MinInt64-other.cents) {
		return Money{}, ErrAmountOverflow
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// Times multiplies the amount by a non-negative quantity
func (m Money) Times(quantity int64) (Money, error) {
	if quantity < 0 {
		return Money{}, errors.New("quantity cannot be negative")
	}
	if quantity != 0 && (m.cents > math.MaxInt64/quantity || m.cents < math.MinInt64/quantity) {
		return Money{}, ErrAmountOverflow
	}
	return Money{cents: m.cents * quantity, currency: m.currency}, nil
}

// Equals reports whether both amounts and currencies match
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents && m.currency == other.currency
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	if zeroDecimalCurrencies[m.currency] {
		return decimal.NewFromInt(m.cents)
	}
	return decimal.New(m.cents, -2)
}

// String renders the amount in major units with the currency code, e.g. "13.00 USD"
func (m Money) String() string {
	places := int32(2)
	if zeroDecimalCurrencies[m.currency] {
		places = 0
	}
	return m.Decimal().StringFixed(places) + " " + strings.ToUpper(string(m.currency))
}
