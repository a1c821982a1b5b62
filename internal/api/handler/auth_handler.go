package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/core/service"
)

// AuthHandler exposes the visitor's Session Store.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Login signs the visitor in and tells the UI where to go next.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ReturnTo == "" {
		req.ReturnTo = c.QueryParam("returnTo")
	}

	p, err := v.Session.Login(c.Request().Context(), mirror, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failed").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()

	return c.JSON(http.StatusOK, authResponse{User: p, Redirect: service.PostAuthDestination(req.ReturnTo, p)})
}

// Signup creates an account and signs the visitor in.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ReturnTo == "" {
		req.ReturnTo = c.QueryParam("returnTo")
	}

	p, err := v.Session.Signup(c.Request().Context(), mirror, req.Name, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "failed").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("signup", "ok").Inc()

	return c.JSON(http.StatusCreated, authResponse{User: p, Redirect: service.PostAuthDestination(req.ReturnTo, p)})
}

// Logout clears the credential everywhere it is kept.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  redirectResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	v.Session.Logout(c.Request().Context(), mirror)
	return c.JSON(http.StatusOK, redirectResponse{Redirect: "/"})
}

// Me reports the signed-in principal.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	p := v.Session.Principal()
	return c.JSON(http.StatusOK, meResponse{Authenticated: p != nil, User: p})
}
