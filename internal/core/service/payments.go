package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

var ErrMissingReference = errors.New("payment reference is required")

// PaymentActions start and confirm processor checkouts for one visitor.
type PaymentActions struct {
	creds    CredentialSource
	payments ports.PaymentGateway
	log      zerolog.Logger
}

func NewPaymentActions(creds CredentialSource, payments ports.PaymentGateway, log zerolog.Logger) *PaymentActions {
	return &PaymentActions{creds: creds, payments: payments, log: log}
}

// StartStripe creates the payment intent the card form confirms.
func (a *PaymentActions) StartStripe(ctx context.Context, orderID string) (*domain.StripeIntent, error) {
	if orderID == "" {
		return nil, ErrMissingOrderID
	}
	intent, err := a.payments.InitializeStripe(ctx, a.creds.Credential(), orderID)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout %s: %w", orderID, err)
	}
	a.log.Info().Str("order", orderID).Str("intent", intent.PaymentIntentID).Msg("stripe checkout started")
	return intent, nil
}

// StartPaystack opens a Paystack transaction billed to email.
func (a *PaymentActions) StartPaystack(ctx context.Context, orderID, email string) (*domain.PaystackTransaction, error) {
	if orderID == "" {
		return nil, ErrMissingOrderID
	}
	tx, err := a.payments.InitializePaystack(ctx, a.creds.Credential(), orderID, email)
	if err != nil {
		return nil, fmt.Errorf("paystack checkout %s: %w", orderID, err)
	}
	a.log.Info().Str("order", orderID).Str("reference", tx.Reference).Msg("paystack checkout started")
	return tx, nil
}

// VerifyPaystack confirms a transaction after the Paystack popup or redirect
// reports it complete. An unsuccessful verdict is not an error.
func (a *PaymentActions) VerifyPaystack(ctx context.Context, reference string) (*domain.PaymentVerification, error) {
	if reference == "" {
		return nil, ErrMissingReference
	}
	v, err := a.payments.VerifyPaystack(ctx, a.creds.Credential(), reference)
	if err != nil {
		return nil, fmt.Errorf("paystack verify %s: %w", reference, err)
	}
	if !v.Success {
		a.log.Warn().Str("reference", reference).Msg("paystack payment not confirmed")
	}
	return v, nil
}
