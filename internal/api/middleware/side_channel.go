package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// TokenCookie carries a copy of the visitor's bearer credential.
	TokenCookie = "token"
	// RoleCookie carries the signed-in role for the route guard.
	RoleCookie = "userRole"
)

// CookieOptions shape every cookie the storefront writes.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// CookieMirror is the side channel for one request. Writes become Set-Cookie
// headers on the response and are also visible to later middleware through
// Value, so a guard running after a restore sees the restored state.
type CookieMirror struct {
	c    echo.Context
	opts CookieOptions

	mu      sync.Mutex
	written map[string]string
}

func NewCookieMirror(c echo.Context, opts CookieOptions) *CookieMirror {
	return &CookieMirror{c: c, opts: opts, written: map[string]string{}}
}

// Mirror writes the token and role cookies.
func (m *CookieMirror) Mirror(token, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxAge := int(m.opts.MaxAge / time.Second)
	m.set(TokenCookie, token, maxAge, true)
	m.set(RoleCookie, role, maxAge, false)
}

// Clear expires both cookies.
func (m *CookieMirror) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(TokenCookie, "", -1, true)
	m.set(RoleCookie, "", -1, false)
}

// Value is the effective cookie: what this request wrote, else what it carried.
func (m *CookieMirror) Value(name string) string {
	m.mu.Lock()
	v, ok := m.written[name]
	m.mu.Unlock()
	if ok {
		return v
	}
	return requestCookie(m.c, name)
}

func (m *CookieMirror) set(name, value string, maxAge int, httpOnly bool) {
	m.written[name] = value
	m.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestCookie(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// cookieValue reads a side-channel cookie through the request's mirror when
// the Visitors middleware installed one.
func cookieValue(c echo.Context, name string) string {
	if m, ok := c.Get(mirrorKey).(*CookieMirror); ok {
		return m.Value(name)
	}
	return requestCookie(c, name)
}
