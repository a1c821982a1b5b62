package domain

import "errors"

// ErrPaymentNotFound is returned for a processor reference the backend never issued.
var ErrPaymentNotFound = errors.New("payment reference not found")

// StripeIntent is what the card form needs to confirm a Stripe payment.
type StripeIntent struct {
	ClientSecret    string `json:"clientSecret" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// PaystackTransaction is an initialized Paystack checkout. Amount is in the
// currency's minor unit.
type PaystackTransaction struct {
	Reference        string `json:"reference" validate:"required"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	AccessCode       string `json:"accessCode,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
}

// PaymentVerification is the processor's verdict on a reference.
type PaymentVerification struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
}
