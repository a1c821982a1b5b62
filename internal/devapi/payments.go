package devapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

const (
	stripeRefPrefix   = "stripe:"
	paystackRefPrefix = "paystack:"

	paystackCheckoutURL = "https://checkout.paystack.com/"
)

// PaymentService stands in for the card processors. Checkouts are tied to
// their order through the reference store, and a verified Paystack reference
// always settles.
type PaymentService struct {
	orders *OrderService
	refs   ports.IdempotencyStore
	logger zerolog.Logger
}

func NewPaymentService(orders *OrderService, refs ports.IdempotencyStore, logger zerolog.Logger) *PaymentService {
	return &PaymentService{orders: orders, refs: refs, logger: logger}
}

// InitializeStripe issues a payment intent for an unpaid order of the caller.
func (s *PaymentService) InitializeStripe(ctx context.Context, orderID string, caller Caller) (*domain.StripeIntent, error) {
	if _, err := s.payable(ctx, orderID, caller); err != nil {
		return nil, err
	}
	id := "pi_" + compactID()
	if err := s.refs.Remember(ctx, stripeRefPrefix+id, orderID); err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", orderID).Str("intent", id).Msg("stripe intent issued")
	return &domain.StripeIntent{ClientSecret: id + "_secret_" + compactID()[:16], PaymentIntentID: id}, nil
}

// InitializePaystack opens a transaction for an unpaid order of the caller.
func (s *PaymentService) InitializePaystack(ctx context.Context, orderID, email string, caller Caller) (*domain.PaystackTransaction, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidOrder)
	}
	order, err := s.payable(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	ref := "ps_" + compactID()
	if err := s.refs.Remember(ctx, paystackRefPrefix+ref, orderID); err != nil {
		return nil, err
	}
	access := compactID()[:12]
	s.logger.Info().Str("order_id", orderID).Str("reference", ref).Msg("paystack transaction opened")
	return &domain.PaystackTransaction{
		Reference:        ref,
		AccessCode:       access,
		AuthorizationURL: paystackCheckoutURL + access,
		Amount:           int64(math.Round(order.TotalPrice * 100)),
	}, nil
}

// VerifyPaystack settles the order behind reference. Verifying the same
// reference twice succeeds both times; an order paid or cancelled by other
// means reports an unsuccessful verification.
func (s *PaymentService) VerifyPaystack(ctx context.Context, reference string, caller Caller) (*domain.PaymentVerification, error) {
	orderID, found, err := s.refs.Lookup(ctx, paystackRefPrefix+reference)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrPaymentNotFound
	}

	out := &domain.PaymentVerification{Reference: reference, OrderID: orderID}
	_, err = s.orders.Pay(ctx, orderID, reference, caller)
	switch {
	case err == nil:
		out.Success = true
	case errors.Is(err, domain.ErrAlreadyPaid):
		order, gerr := s.orders.Get(ctx, orderID, caller)
		if gerr != nil {
			return nil, gerr
		}
		out.Success = order.PaymentID == reference
	case errors.Is(err, domain.ErrInvalidTransition):
	default:
		return nil, err
	}
	return out, nil
}

// payable returns the caller's order when it can still be paid.
func (s *PaymentService) payable(ctx context.Context, orderID string, caller Caller) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if order.Status == domain.OrderCancelled {
		return nil, fmt.Errorf("%w: order is cancelled", domain.ErrInvalidTransition)
	}
	return order, nil
}

func compactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
