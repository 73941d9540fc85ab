package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/cart"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/domain/shared/valueobject"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CheckoutConfig holds the checkout saga settings
type CheckoutConfig struct {
	Currency       valueobject.Currency
	PaymentTimeout time.Duration
	AttemptKeyTTL  time.Duration
}

// CheckoutService turns the actor's cart into a paid order
type CheckoutService struct {
	cartRepo  cart.Repository
	orderRepo order.Repository
	gateway   order.PaymentGateway
	keys      shared.IdempotencyKeyStore
	clearer   *CartClearer
	events    shared.EventPublisher
	metrics   CheckoutMetrics
	cfg       CheckoutConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cartRepo cart.Repository,
	orderRepo order.Repository,
	gateway order.PaymentGateway,
	keys shared.IdempotencyKeyStore,
	clearer *CartClearer,
	events shared.EventPublisher,
	metrics CheckoutMetrics,
	cfg CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	cfg.Currency = valueobject.ParseCurrency(string(cfg.Currency))
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 20 * time.Second
	}
	if cfg.AttemptKeyTTL <= 0 {
		cfg.AttemptKeyTTL = 24 * time.Hour
	}
	return &CheckoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		keys:      keys,
		clearer:   clearer,
		events:    events,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout charges the actor for their cart and records the order.
//
// The cart is snapshotted first and only the snapshot is charged and cleared.
// No state changes when the charge fails. Once money has moved the order is
// persisted even if the caller goes away; a failure there yields Inconsistent
// with the charge id in the log. When only the cart clear fails, the order is
// returned together with an Inconsistent error and CartClearPending set.
func (s *CheckoutService) Checkout(ctx context.Context, actor *identity.Actor, input CheckoutInput) (*CheckoutResult, error) {
	started := s.now()
	if err := identity.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	log := logger.For(ctx, s.logger).With(zap.String("user_id", actor.UserID.String()))

	if strings.TrimSpace(input.PaymentToken) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment token is required")
	}

	lines, err := s.cartRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	snapshot := cart.NewSnapshot(actor.UserID, lines, started)
	if snapshot.IsEmpty() {
		s.metrics.RecordCheckout(ctx, OutcomeEmptyCart, 0, string(s.cfg.Currency), s.now().Sub(started))
		return nil, shared.NewDomainError(shared.CodeValidation, "Your cart is empty")
	}

	total, err := snapshot.Total(s.cfg.Currency)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Cart total must be positive")
	}

	scope := attemptScope(actor.UserID, snapshot.Fingerprint(), input.AttemptKey)
	key, err := s.keys.Acquire(ctx, scope, uuid.NewString(), s.cfg.AttemptKeyTTL)
	if err != nil {
		// without the store a retry cannot reuse the key, but this attempt still charges once
		log.Warn("Idempotency key store unavailable", zap.Error(err))
		key = uuid.NewString()
	}
	log = log.With(zap.String("idempotency_key", key))

	charge, err := s.charge(ctx, order.ChargeRequest{
		Amount:         total,
		PaymentToken:   input.PaymentToken,
		IdempotencyKey: key,
		Description:    fmt.Sprintf("Sick Fits order for %s", actor.Email),
		Metadata: map[string]string{
			"user_id":    actor.UserID.String(),
			"line_count": fmt.Sprintf("%d", len(snapshot.Lines)),
		},
	})
	if err != nil {
		outcome := OutcomeProcessorError
		if errors.Is(err, shared.ErrPaymentDeclined) {
			outcome = OutcomeDeclined
			// a new card needs a new key; the processor rejects a reused key with new parameters
			s.release(ctx, scope)
		}
		log.Info("Checkout charge failed", zap.String("outcome", outcome), zap.Error(err))
		s.metrics.RecordCheckout(ctx, outcome, total.Cents(), string(total.Currency()), s.now().Sub(started))
		return nil, err
	}
	log = log.With(zap.String("charge_id", charge.ID))

	// money has moved; finish the saga regardless of the caller
	ctx = context.WithoutCancel(ctx)

	placed, replayed, err := s.persist(ctx, log, snapshot, charge)
	if err != nil {
		s.metrics.RecordCheckout(ctx, OutcomeInconsistent, total.Cents(), string(total.Currency()), s.now().Sub(started))
		return nil, err
	}

	result := &CheckoutResult{Replayed: replayed}
	if _, err := s.clearer.Clear(ctx, placed.UserID, placed.SourceCartItemIDs); err != nil {
		log.Error("Order placed but cart clear failed",
			zap.String("order_id", placed.ID.String()),
			zap.Error(err),
		)
		placed.AddDomainEvent(order.NewCartClearPendingEvent(placed))
		s.publish(ctx, placed)

		result.Order = ToOrderView(placed)
		result.CartClearPending = true
		s.metrics.RecordCheckout(ctx, OutcomeClearPending, placed.Total, string(placed.Currency), s.now().Sub(started))
		// the key stays so a retry of this same cart replays the charge instead of paying twice
		return result, shared.NewDomainErrorWithCause(shared.CodeInconsistent,
			"Your order was placed but your cart could not be emptied", err)
	}

	s.release(ctx, scope)
	s.publish(ctx, placed)
	s.metrics.RecordCheckout(ctx, OutcomeSuccess, placed.Total, string(placed.Currency), s.now().Sub(started))
	log.Info("Checkout completed",
		zap.String("order_id", placed.ID.String()),
		zap.Int64("total", placed.Total),
		zap.Bool("replayed", replayed),
	)

	result.Order = ToOrderView(placed)
	return result, nil
}

func (s *CheckoutService) charge(ctx context.Context, req order.ChargeRequest) (*order.ConfirmedCharge, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()

	charge, err := s.gateway.Charge(chargeCtx, req)
	if err == nil {
		return charge, nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case shared.CodePaymentDeclined, shared.CodePaymentProcessorError, shared.CodeValidation:
			return nil, err
		}
	}
	if errors.Is(chargeCtx.Err(), context.DeadlineExceeded) {
		return nil, shared.NewDomainErrorWithCause(shared.CodePaymentProcessorError, "Payment processor timed out", err)
	}
	return nil, shared.NewDomainErrorWithCause(shared.CodePaymentProcessorError, "Payment processor error", err)
}

// persist stores the order for charge. A charge that already has an order
// (the processor replayed it for a reused key) resolves to that order.
func (s *CheckoutService) persist(ctx context.Context, log *zap.Logger, snapshot *cart.Snapshot, charge *order.ConfirmedCharge) (*order.Order, bool, error) {
	placed, err := order.NewOrder(snapshot, *charge)
	if err != nil {
		if existing, findErr := s.orderRepo.FindByChargeID(ctx, charge.ID); findErr == nil {
			return existing, true, nil
		}
		log.Error("Charge succeeded but order could not be built",
			zap.Int64("charged", charge.Amount.Cents()),
			zap.Error(err),
		)
		return nil, false, err
	}

	err = s.orderRepo.Create(ctx, placed)
	if err == nil {
		return placed, false, nil
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		existing, findErr := s.orderRepo.FindByChargeID(ctx, charge.ID)
		if findErr == nil {
			log.Info("Charge replayed, reusing existing order", zap.String("order_id", existing.ID.String()))
			return existing, true, nil
		}
		err = findErr
	}

	log.Error("Charge succeeded but order was not saved", zap.Error(err))
	return nil, false, shared.NewDomainErrorWithCause(shared.CodeInconsistent,
		"Your payment went through but the order could not be saved. Reference: "+charge.ID, err)
}

func (s *CheckoutService) release(ctx context.Context, scope string) {
	if err := s.keys.Release(ctx, scope); err != nil {
		logger.For(ctx, s.logger).Warn("Failed to release idempotency key", zap.Error(err))
	}
}

func (s *CheckoutService) publish(ctx context.Context, o *order.Order) {
	if err := shared.DrainEvents(ctx, s.events, o); err != nil {
		logger.For(ctx, s.logger).Error("Failed to publish order events", zap.Error(err))
	}
}

// attemptScope names one logical payment attempt: the same user paying for
// the same cart contents under the same client key
func attemptScope(userID uuid.UUID, fingerprint, clientKey string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	if clientKey != "" {
		h.Write([]byte{'|'})
		h.Write([]byte(clientKey))
	}
	return "checkout:" + userID.String() + ":" + hex.EncodeToString(h.Sum(nil))
}
