package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/service"
)

// RedirectError is a failure the caller answers by navigating to Redirect.
type RedirectError struct {
	Status   int
	Message  string
	Redirect string
	Err      error
}

func (e *RedirectError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RedirectError) Unwrap() error { return e.Err }

// ctxVisitor extracts the visitor and cookie mirror injected by the Visitors
// middleware. A missing visitor means the route was mounted without it.
func ctxVisitor(c echo.Context) (*service.Visitor, ports.SideChannel, error) {
	v := middleware.VisitorFrom(c)
	mirror := middleware.MirrorFrom(c)
	if v == nil || mirror == nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "visitor context missing")
	}
	return v, mirror, nil
}

// authFailure turns an authentication error into a login redirect that comes
// back to returnTo. A rejected credential also signs the visitor out so the
// guard stops letting the stale cookie through.
func authFailure(ctx context.Context, v *service.Visitor, mirror ports.SideChannel, err error, returnTo string) error {
	if !domain.NeedsAuthentication(err) {
		return err
	}
	if errors.Is(err, domain.ErrCredentialExpired) {
		v.Session.Expire(ctx, mirror)
	}
	return &RedirectError{
		Status:   http.StatusUnauthorized,
		Message:  "authentication required",
		Redirect: service.LoginRedirect(returnTo),
		Err:      err,
	}
}
