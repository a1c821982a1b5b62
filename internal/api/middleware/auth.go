package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/core/domain"
)

const (
	// AccountIDKey holds the authenticated account id set by Auth.
	AccountIDKey = "account_id"
	// RoleKey holds the authenticated role set by Auth.
	RoleKey = "role"
)

// TokenVerifier resolves a bearer token to the principal it was issued for.
type TokenVerifier interface {
	Authenticate(token string) (*domain.Principal, error)
}

// Auth validates the bearer token and injects the caller's identity into context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			p, err := verifier.Authenticate(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(AccountIDKey, p.ID)
			c.Set(RoleKey, p.Role)

			return next(c)
		}
	}
}
