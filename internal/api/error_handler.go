package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api/handler"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/service"
	"github.com/waosongs/storefront/internal/core/wizard"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"} plus a
//     redirect when the caller has to navigate.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var re *handler.RedirectError
	if errors.As(err, &re) {
		return re.Status, errorResponse{Error: re.Message, Redirect: re.Redirect}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Field: string(ve.Field)}
	}

	// Known domain errors → deterministic HTTP codes. Authentication failures
	// never echo what the backend said.
	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid email or password. Please try again."}
	case errors.Is(err, domain.ErrAccountCreationFailed):
		return http.StatusConflict, errorResponse{Error: "Failed to create account. The email may already be in use."}
	case domain.NeedsAuthentication(err):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Redirect: service.LoginPath}
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrFlowClosed):
		return http.StatusConflict, errorResponse{Error: "order flow is no longer active"}
	case errors.Is(err, service.ErrMissingOrderID), errors.Is(err, service.ErrMissingPaymentID),
		errors.Is(err, service.ErrMissingReference):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, wizard.ErrUnknownField):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway, errorResponse{Error: "unexpected response from the order service"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorResponse{Error: "order not found"}
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, errorResponse{Error: "payment reference not found"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrAlreadyPaid):
		return http.StatusConflict, errorResponse{Error: "order already paid"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, errorResponse{Error: "account already exists"}
	}

	var rf *domain.RequestFailedError
	if errors.As(err, &rf) {
		code := rf.StatusCode
		switch {
		case code == http.StatusGatewayTimeout:
		case code < http.StatusBadRequest || code >= http.StatusInternalServerError:
			code = http.StatusBadGateway
		}
		return code, errorResponse{Error: rf.Message}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
