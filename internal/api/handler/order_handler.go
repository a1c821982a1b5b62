package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/service"
)

// OrderHandler serves the customer dashboard and the admin back office.
type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// List returns the caller's orders.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	orders, err := v.Orders.List(ctx)
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.DefaultDestination)
	}
	return c.JSON(http.StatusOK, orderListResponse{Orders: orders})
}

// Get returns one order.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	order, err := v.Orders.Get(ctx, c.Param("id"))
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.DefaultDestination)
	}
	return c.JSON(http.StatusOK, order)
}

// Pay records the payment of an order.
//
// @Summary      Pay for an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Order id"
// @Param        body  body      paymentRequest  true  "Payment reference"
// @Success      200   {object}  service.Action
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/orders/{id}/payment [post]
func (h *OrderHandler) Pay(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.act(c, mirror, v, func() (service.Action, error) {
		return v.Orders.Pay(c.Request().Context(), c.Param("id"), req.PaymentID)
	})
}

// Cancel cancels an order.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  service.Action
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	return h.act(c, mirror, v, func() (service.Action, error) {
		return v.Orders.Cancel(c.Request().Context(), c.Param("id"))
	})
}

// AdminOrders pages through every order.
//
// @Summary      All orders (admin)
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  domain.Page[domain.Order]
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) AdminOrders(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pageParams(c)
	out, err := v.Orders.AdminOrders(ctx, page, limit)
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.AdminHome+"/orders")
	}
	return c.JSON(http.StatusOK, out)
}

// AdminUsers pages through every account.
//
// @Summary      All users (admin)
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  domain.Page[domain.Principal]
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *OrderHandler) AdminUsers(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pageParams(c)
	out, err := v.Orders.AdminUsers(ctx, page, limit)
	if err != nil {
		return authFailure(ctx, v, mirror, err, service.AdminHome+"/users")
	}
	return c.JSON(http.StatusOK, out)
}

// act runs an order action. An action that needs a new login answers with the
// redirect the action chose.
func (h *OrderHandler) act(c echo.Context, mirror ports.SideChannel, v *service.Visitor, fn func() (service.Action, error)) error {
	out, err := fn()
	if err != nil {
		if !domain.NeedsAuthentication(err) {
			return err
		}
		if errors.Is(err, domain.ErrCredentialExpired) {
			v.Session.Expire(c.Request().Context(), mirror)
		}
		return &RedirectError{
			Status:   http.StatusUnauthorized,
			Message:  "authentication required",
			Redirect: out.Redirect,
			Err:      err,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
