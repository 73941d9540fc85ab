package order

import (
	"context"
	"time"
)

// Checkout outcomes reported to CheckoutMetrics
const (
	OutcomeSuccess        = "success"
	OutcomeEmptyCart      = "empty_cart"
	OutcomeDeclined       = "declined"
	OutcomeProcessorError = "processor_error"
	OutcomeInconsistent   = "inconsistent"
	OutcomeClearPending   = "cart_clear_pending"
)

// Cart clear results reported to CheckoutMetrics
const (
	ClearCleared = "cleared"
	ClearRetried = "retried"
	ClearFailed  = "failed"
)

// CheckoutMetrics records checkout outcomes. Implemented by the telemetry layer.
type CheckoutMetrics interface {
	RecordCheckout(ctx context.Context, outcome string, amountCents int64, currency string, elapsed time.Duration)
	RecordCartClear(ctx context.Context, result string)
}

type noopMetrics struct{}

func (noopMetrics) RecordCheckout(context.Context, string, int64, string, time.Duration) {}
func (noopMetrics) RecordCartClear(context.Context, string) {}
