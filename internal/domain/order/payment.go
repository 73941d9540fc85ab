package order

import (
	"context"

	"github.com/sickfits/backend/internal/domain/shared/valueobject"
)

// ChargeRequest asks the payment processor to move money once
type ChargeRequest struct {
	Amount valueobject.Money
	// PaymentToken is the single-use card token produced by the storefront
	PaymentToken string
	// IdempotencyKey makes a retried request return the original charge
	IdempotencyKey string
	Description    string
	Metadata       map[string]string
}

// PaymentGateway charges customers. Implementations return an error coded
// PAYMENT_DECLINED when the processor refuses the charge and
// PAYMENT_PROCESSOR_ERROR when the outcome is unknown or the call failed.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ConfirmedCharge, error)
}
