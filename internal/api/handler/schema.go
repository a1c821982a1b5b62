package handler

import (
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/service"
	"github.com/waosongs/storefront/internal/core/wizard"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ReturnTo string `json:"returnTo"`
}

type signupRequest struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	ReturnTo        string `json:"returnTo"`
}

type authResponse struct {
	User     *domain.Principal `json:"user"`
	Redirect string            `json:"redirect"`
}

type meResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *domain.Principal `json:"user,omitempty"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

// --- Wizard ---

type updateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type wizardResponse struct {
	wizard.View
	State service.SubmissionState `json:"submissionState"`
	// Resumed is set when a draft saved before login was merged back in.
	Resumed bool `json:"resumed,omitempty"`
	// ReattachFiles asks the visitor to pick the files again; they do not
	// survive the login round trip.
	ReattachFiles bool `json:"reattachFiles,omitempty"`
}

type discardResponse struct {
	Discarded bool   `json:"discarded"`
	Redirect  string `json:"redirect"`
}

// --- Orders ---

type paymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
}

type orderListResponse struct {
	Orders []domain.Order `json:"orders"`
}

// --- Payments ---

type stripeInitRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type paystackInitRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	// Email defaults to the signed-in account's address.
	Email string `json:"email" validate:"omitempty,email"`
}

type paystackVerifyResponse struct {
	domain.PaymentVerification
	// Redirect is the order confirmation page once the payment is confirmed.
	Redirect string `json:"redirect,omitempty"`
}
