package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/core/service"
)

// PaymentHandler proxies the card processor checkouts to the order backend.
type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

// StripeInitialize creates a Stripe payment intent for an order.
//
// @Summary      Start a Stripe checkout
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      stripeInitRequest  true  "Order to pay"
// @Success      200   {object}  domain.StripeIntent
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/payment/stripe/initialize [post]
func (h *PaymentHandler) StripeInitialize(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	var req stripeInitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	intent, err := v.Payments.StartStripe(ctx, req.OrderID)
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.PaymentPage(req.OrderID))
	}
	return c.JSON(http.StatusOK, intent)
}

// PaystackInitialize opens a Paystack transaction for an order.
//
// @Summary      Start a Paystack checkout
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      paystackInitRequest  true  "Order to pay"
// @Success      200   {object}  domain.PaystackTransaction
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/payment/paystack/initialize [post]
func (h *PaymentHandler) PaystackInitialize(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	var req paystackInitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email := req.Email
	if p := v.Session.Principal(); email == "" && p != nil {
		email = p.Email
	}
	ctx := c.Request().Context()
	tx, err := v.Payments.StartPaystack(ctx, req.OrderID, email)
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.PaymentPage(req.OrderID))
	}
	return c.JSON(http.StatusOK, tx)
}

// PaystackVerify confirms a Paystack transaction. The optional orderId query
// parameter picks the checkout page a login returns to.
//
// @Summary      Verify a Paystack payment
// @Tags         payments
// @Produce      json
// @Param        reference  path      string  true   "Paystack reference"
// @Param        orderId    query     string  false  "Order being paid"
// @Success      200        {object}  paystackVerifyResponse
// @Failure      401        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/payment/paystack/verify/{reference} [get]
func (h *PaymentHandler) PaystackVerify(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	returnTo := service.DefaultDestination
	if id := c.QueryParam("orderId"); id != "" {
		returnTo = service.PaymentPage(id)
	}
	ctx := c.Request().Context()
	verdict, err := v.Payments.VerifyPaystack(ctx, c.Param("reference"))
	if err != nil {
		return authFailure(ctx, v, mirror, err, returnTo)
	}
	out := paystackVerifyResponse{PaymentVerification: *verdict}
	if verdict.Success && verdict.OrderID != "" {
		out.Redirect = service.SuccessRedirect(verdict.OrderID)
	}
	return c.JSON(http.StatusOK, out)
}
