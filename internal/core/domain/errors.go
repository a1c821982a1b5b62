package domain

import (
	"errors"
	"fmt"
)

// Session and backend errors seen by the storefront.
var (
	ErrNoCredential          = errors.New("no credential")
	ErrCredentialExpired     = errors.New("credential expired")
	ErrAuthenticationFailed  = errors.New("authentication failed")
	ErrAccountCreationFailed = errors.New("account creation failed")
	ErrInvalidResponse       = errors.New("invalid response from backend")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrSubmissionInFlight    = errors.New("order submission already in progress")
)

// Errors raised by the order backend.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrForbidden          = errors.New("access forbidden")
)

// RequestFailedError is a non-2xx, non-401 answer from the backend.
type RequestFailedError struct {
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// ValidationError reports the first required field missing for a wizard step.
type ValidationError struct {
	Step  int
	Field DraftField
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s is required", e.Step, e.Field)
}

// NeedsAuthentication reports whether err means the visitor has to sign in again.
func NeedsAuthentication(err error) bool {
	return errors.Is(err, ErrNoCredential) || errors.Is(err, ErrCredentialExpired)
}
