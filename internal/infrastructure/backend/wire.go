package backend

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/waosongs/storefront/internal/core/domain"
)

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

type userPayload struct {
	ID    flexibleID `json:"id" validate:"required"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  string     `json:"role"`
}

func (u *userPayload) principal() *domain.Principal {
	return &domain.Principal{ID: string(u.ID), Name: u.Name, Email: u.Email, Role: u.Role}
}

// authResponse is the body of login and signup.
type authResponse struct {
	Token string       `json:"token" validate:"required"`
	User  *userPayload `json:"user" validate:"required"`
}

// orderResponse wraps the order answered by POST /orders. Every other order
// endpoint answers with the bare order.
type orderResponse struct {
	Order *domain.Order `json:"order" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type paymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type stripeInitRequest struct {
	OrderID string `json:"orderId"`
}

type paystackInitRequest struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email,omitempty"`
}

// errorBody is the shape of an error answer; either field may carry the text.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
