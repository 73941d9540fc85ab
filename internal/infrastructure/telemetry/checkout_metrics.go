package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives no meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

var (
	attrOutcome  = attribute.Key("outcome")
	attrCurrency = attribute.Key("currency")
	attrResult   = attribute.Key("result")
)

// CheckoutMetrics records checkout saga outcomes
type CheckoutMetrics struct {
	checkouts  *Counter
	revenue    *Counter
	duration   *Histogram
	cartClears *Counter
}

// NewCheckoutMetrics registers the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	checkouts, err := NewCounter(meter, "sickfits_checkout_total", "Checkout attempts by outcome", "{checkouts}")
	if err != nil {
		return nil, err
	}
	revenue, err := NewCounter(meter, "sickfits_checkout_amount_total", "Charged amount in the smallest currency unit", "{cents}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "sickfits_checkout_duration_seconds", "End to end checkout duration", "s", CheckoutDurationBuckets...)
	if err != nil {
		return nil, err
	}
	cartClears, err := NewCounter(meter, "sickfits_cart_clear_total", "Post checkout cart clears by result", "{clears}")
	if err != nil {
		return nil, err
	}

	return &CheckoutMetrics{
		checkouts:  checkouts,
		revenue:    revenue,
		duration:   duration,
		cartClears: cartClears,
	}, nil
}

// RecordCheckout counts one checkout. amountCents is only added to revenue
// when a charge was confirmed (amountCents > 0).
func (m *CheckoutMetrics) RecordCheckout(ctx context.Context, outcome string, amountCents int64, currency string, elapsed time.Duration) {
	m.checkouts.Inc(ctx, attrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, elapsed, attrOutcome.String(outcome))
	if amountCents > 0 {
		m.revenue.Add(ctx, amountCents, attrCurrency.String(currency))
	}
}

// RecordCartClear counts one cart clear attempt sequence
func (m *CheckoutMetrics) RecordCartClear(ctx context.Context, result string) {
	m.cartClears.Inc(ctx, attrResult.String(result))
}
