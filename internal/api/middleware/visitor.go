package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/service"
)

const (
	// VisitorCookie identifies the browser across requests.
	VisitorCookie = "vid"

	visitorKey = "visitor"
	mirrorKey  = "mirror"

	visitorCookieAge = 365 * 24 * time.Hour
)

// Visitors attaches the caller's visitor and side channel to the context.
// Until a visitor's restore settles, each request retries it; after that,
// requests only reconcile the token and role cookies with the primary
// credential.
func Visitors(registry *service.VisitorRegistry, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := requestCookie(c, VisitorCookie)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     VisitorCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(visitorCookieAge / time.Second),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			v := registry.Get(id)
			mirror := NewCookieMirror(c, opts)
			if !v.EnsureRestored(c.Request().Context(), mirror) {
				v.Session.Reconcile(mirror, requestCookie(c, TokenCookie), requestCookie(c, RoleCookie))
			}

			c.Set(visitorKey, v)
			c.Set(mirrorKey, mirror)
			return next(c)
		}
	}
}

// VisitorFrom returns the visitor attached by Visitors, or nil.
func VisitorFrom(c echo.Context) *service.Visitor {
	v, _ := c.Get(visitorKey).(*service.Visitor)
	return v
}

// MirrorFrom returns the request's side channel, or nil.
func MirrorFrom(c echo.Context) ports.SideChannel {
	m, ok := c.Get(mirrorKey).(*CookieMirror)
	if !ok || m == nil {
		return nil
	}
	return m
}
