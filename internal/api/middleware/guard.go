package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/service"
)

// Verdict is the route guard's decision for one request.
type Verdict int

const (
	Allow Verdict = iota
	// RequireLogin sends the caller to the login page.
	RequireLogin
	// RequireAdmin sends a signed-in non-admin to the login page.
	RequireAdmin
	// SendHome answers an auth page request from a signed-in caller.
	SendHome
)

const apiPrefix = "/api"

var (
	protectedPrefixes = []string{"/api/orders", "/api/dashboard", "/api/payment"}
	adminPrefix       = "/api/admin"
	authPages         = []string{"/api/auth/login", "/api/auth/signup"}
)

// Decide applies the guard rules to path using only the side-channel values.
// It knows nothing about the session store behind them.
func Decide(path, token, role string, now time.Time) Verdict {
	signedIn := tokenUsable(token, now)

	switch {
	case underPrefix(path, adminPrefix):
		if !signedIn {
			return RequireLogin
		}
		if role != domain.RoleAdmin {
			return RequireAdmin
		}
	case anyPrefix(path, protectedPrefixes):
		if !signedIn {
			return RequireLogin
		}
	case anyPrefix(path, authPages):
		if signedIn {
			return SendHome
		}
	}
	return Allow
}

// Guard enforces Decide on every request it wraps.
func Guard(now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			token := cookieValue(c, TokenCookie)
			role := cookieValue(c, RoleCookie)

			switch Decide(path, token, role, now()) {
			case RequireLogin:
				return c.JSON(http.StatusUnauthorized, guardResponse{
					Error:    "authentication required",
					Redirect: service.LoginRedirect(pageFor(path)),
				})
			case RequireAdmin:
				return c.JSON(http.StatusForbidden, guardResponse{
					Error:    "admin access required",
					Redirect: service.LoginRedirect(pageFor(path)),
				})
			case SendHome:
				return c.JSON(http.StatusOK, guardResponse{
					Redirect: service.HomeFor(&domain.Principal{Role: role}),
				})
			}
			return next(c)
		}
	}
}

type guardResponse struct {
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect"`
}

// tokenUsable treats a JWT whose exp has passed as absent. Opaque tokens and
// tokens without exp are taken at face value; the backend has the final say.
func tokenUsable(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	if strings.Count(token, ".") != 2 {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}

// pageFor maps an API path to the UI page a login should return to.
func pageFor(path string) string {
	if underPrefix(path, adminPrefix) {
		return strings.TrimPrefix(path, apiPrefix)
	}
	return service.DefaultDestination
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func anyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if underPrefix(path, p) {
			return true
		}
	}
	return false
}
