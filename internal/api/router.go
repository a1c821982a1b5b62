package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/waosongs/storefront/docs"
	"github.com/waosongs/storefront/internal/api/handler"
	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/service"
)

// RouterDeps is everything the storefront router is built from.
type RouterDeps struct {
	Registry       *service.VisitorRegistry
	Cookies        middleware.CookieOptions
	AutoAdvance    bool
	AllowedOrigins []string
	// Checks are the readiness checks, keyed by dependency name.
	Checks map[string]handler.Checker
	Log    zerolog.Logger
}

// NewRouter builds and returns the storefront Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler))
	metrics.Instrument(e, "http")

	// --- Health checks, metrics and docs (no visitor) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Visitor API ---
	authHandler := handler.NewAuthHandler()
	wizardHandler := handler.NewWizardHandler(d.AutoAdvance, d.Log)
	orderHandler := handler.NewOrderHandler()
	paymentHandler := handler.NewPaymentHandler()

	apiGroup := e.Group("/api",
		middleware.Visitors(d.Registry, d.Cookies),
		middleware.Guard(time.Now),
	)

	auth := apiGroup.Group("/auth")
	auth.POST("/login", authHandler.Login, middleware.Throttle("login"))
	auth.POST("/signup", authHandler.Signup, middleware.Throttle("signup"))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	wiz := apiGroup.Group("/order/wizard")
	wiz.GET("", wizardHandler.Show)
	wiz.DELETE("", wizardHandler.Discard)
	wiz.PATCH("/fields", wizardHandler.UpdateField)
	wiz.PUT("/attachments", wizardHandler.Attachments)
	wiz.POST("/next", wizardHandler.Next)
	wiz.POST("/prev", wizardHandler.Prev)
	wiz.POST("/submit", wizardHandler.Submit)

	orders := apiGroup.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/payment", orderHandler.Pay)
	orders.POST("/:id/cancel", orderHandler.Cancel)

	payment := apiGroup.Group("/payment")
	payment.POST("/stripe/initialize", paymentHandler.StripeInitialize)
	payment.POST("/paystack/initialize", paymentHandler.PaystackInitialize)
	payment.GET("/paystack/verify/:reference", paymentHandler.PaystackVerify)

	admin := apiGroup.Group("/admin")
	admin.GET("/orders", orderHandler.AdminOrders)
	admin.GET("/users", orderHandler.AdminUsers)

	return e
}
