package devapi

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api"
	"github.com/waosongs/storefront/internal/api/handler"
	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/domain"
)

// NewRouter builds the development backend. Every route lives under /api,
// which is the base URL the storefront client is configured with.
func NewRouter(accounts *AccountService, orders *OrderService, payments *PaymentService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	metrics.Instrument(e, "devapi_http")

	h := NewHandler(accounts, orders, payments)

	g := e.Group("/api")
	g.GET("/health", h.Health)

	// --- Auth (public) ---
	auth := g.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/signup", h.Signup)
	auth.GET("/validate", h.Validate)

	requireAuth := middleware.Auth(accounts)

	// --- Customer orders ---
	ord := g.Group("/orders", requireAuth)
	ord.POST("", h.CreateOrder)
	ord.GET("", h.ListOrders)
	ord.GET("/:id", h.GetOrder)
	ord.POST("/:id/payment", h.PayOrder)
	ord.POST("/:id/cancel", h.CancelOrder)

	// --- Card processors ---
	pay := g.Group("/payment", requireAuth)
	pay.POST("/stripe/initialize", h.StripeInitialize)
	pay.POST("/paystack/initialize", h.PaystackInitialize)
	pay.GET("/paystack/verify/:reference", h.PaystackVerify)

	// --- Back office ---
	admin := g.Group("/admin", requireAuth, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/orders", h.AdminOrders)
	admin.GET("/users", h.AdminUsers)

	return e
}
