package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/charge"
	"go.uber.org/zap"
)

// StripeGateway charges card tokens through the Stripe Charges API
type StripeGateway struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewStripeGateway configures the Stripe client and returns a gateway.
// A zero PaymentTimeout leaves the call bounded only by the caller's context.
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		return nil, fmt.Errorf("stripe: secret key must start with sk_ or rk_")
	}

	stripe.Key = cfg.SecretKey

	return &StripeGateway{
		timeout: cfg.PaymentTimeout,
		logger:  logger.Named("stripe"),
	}, nil
}

// Charge implements order.PaymentGateway
func (g *StripeGateway) Charge(ctx context.Context, req order.ChargeRequest) (*order.ConfirmedCharge, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Charge amount must be positive")
	}
	if strings.TrimSpace(req.PaymentToken) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment token is required")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount.Cents()),
		Currency:    stripe.String(string(req.Amount.Currency())),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if err := params.SetSource(req.PaymentToken); err != nil {
		return nil, shared.NewDomainErrorWithCause(shared.CodeValidation, "Invalid payment token", err)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	log := g.logger.With(
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.Int64("amount", req.Amount.Cents()),
		zap.String("currency", string(req.Amount.Currency())),
	)
	log.Debug("Creating Stripe charge")

	ch, err := charge.New(params)
	if err != nil {
		return nil, g.translateError(ctx, log, err)
	}

	switch ch.Status {
	case stripe.ChargeStatusSucceeded:
	case stripe.ChargeStatusFailed:
		log.Info("Stripe charge failed", zap.String("charge_id", ch.ID), zap.String("failure_code", ch.FailureCode))
		return nil, shared.NewDomainError(shared.CodePaymentDeclined, declineMessage(ch.FailureMessage))
	default:
		log.Warn("Stripe charge not settled", zap.String("charge_id", ch.ID), zap.String("status", string(ch.Status)))
		return nil, shared.NewDomainError(shared.CodePaymentProcessorError,
			fmt.Sprintf("Charge %s is %s", ch.ID, ch.Status))
	}

	amount := valueobject.NewMoney(ch.Amount, valueobject.ParseCurrency(string(ch.Currency)))

	log.Info("Created Stripe charge", zap.String("charge_id", ch.ID))
	return &order.ConfirmedCharge{ID: ch.ID, Amount: amount}, nil
}

// translateError maps Stripe failures onto the error taxonomy: card errors
// are declines, everything else leaves the outcome unknown
func (g *StripeGateway) translateError(ctx context.Context, log *zap.Logger, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			log.Info("Stripe declined charge",
				zap.String("code", string(stripeErr.Code)),
				zap.String("decline_code", string(stripeErr.DeclineCode)))
			return shared.NewDomainErrorWithCause(shared.CodePaymentDeclined, declineMessage(stripeErr.Msg), err)
		}
		log.Error("Stripe rejected charge request",
			zap.String("type", string(stripeErr.Type)),
			zap.Int("http_status", stripeErr.HTTPStatusCode),
			zap.Error(err))
		return shared.NewDomainErrorWithCause(shared.CodePaymentProcessorError, "Payment processor error", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Error("Stripe charge timed out", zap.Error(err))
		return shared.NewDomainErrorWithCause(shared.CodePaymentProcessorError, "Payment processor timed out", err)
	}

	log.Error("Stripe charge failed", zap.Error(err))
	return shared.NewDomainErrorWithCause(shared.CodePaymentProcessorError, "Payment processor unavailable", err)
}

func declineMessage(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "Your card was declined"
	}
	return msg
}

var _ order.PaymentGateway = (*StripeGateway)(nil)
