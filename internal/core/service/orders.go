package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var (
	ErrMissingOrderID   = errors.New("order id is required")
	ErrMissingPaymentID = errors.New("payment id is required")
)

// Action is the outcome of an order action. Redirect is where the UI goes next,
// including the login page when the credential was missing or rejected.
type Action struct {
	Order    *domain.Order `json:"order,omitempty"`
	Redirect string        `json:"redirect,omitempty"`
}

// OrderActions are the dashboard operations on existing orders.
type OrderActions struct {
	creds  CredentialSource
	orders ports.OrderGateway
	admin  ports.AdminGateway
	log    zerolog.Logger
}

func NewOrderActions(creds CredentialSource, orders ports.OrderGateway, admin ports.AdminGateway, log zerolog.Logger) *OrderActions {
	return &OrderActions{creds: creds, orders: orders, admin: admin, log: log}
}

func (a *OrderActions) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := a.orders.ListOrders(ctx, a.creds.Credential())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (a *OrderActions) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrMissingOrderID
	}
	order, err := a.orders.GetOrder(ctx, a.creds.Credential(), id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

// Cancel cancels an order and sends the visitor back to the dashboard.
func (a *OrderActions) Cancel(ctx context.Context, id string) (Action, error) {
	if id == "" {
		return Action{}, ErrMissingOrderID
	}
	order, err := a.orders.CancelOrder(ctx, a.creds.Credential(), id)
	if err != nil {
		if domain.NeedsAuthentication(err) {
			return Action{Redirect: LoginRedirect(DefaultDestination)}, err
		}
		return Action{}, fmt.Errorf("cancel order %s: %w", id, err)
	}
	a.log.Info().Str("order", id).Msg("order cancelled")
	return Action{Order: order, Redirect: DefaultDestination}, nil
}

// Pay records a payment and sends the visitor back to the dashboard. When
// the session is gone the login page returns to this order's payment page.
func (a *OrderActions) Pay(ctx context.Context, id, paymentID string) (Action, error) {
	if id == "" {
		return Action{}, ErrMissingOrderID
	}
	if paymentID == "" {
		return Action{}, ErrMissingPaymentID
	}
	order, err := a.orders.ProcessPayment(ctx, a.creds.Credential(), id, paymentID)
	if err != nil {
		if domain.NeedsAuthentication(err) {
			return Action{Redirect: LoginRedirect(PaymentPage(id))}, err
		}
		return Action{}, fmt.Errorf("pay order %s: %w", id, err)
	}
	a.log.Info().Str("order", id).Str("payment", paymentID).Msg("order paid")
	return Action{Order: order, Redirect: DefaultDestination}, nil
}

func (a *OrderActions) AdminOrders(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error) {
	page, limit = normalisePage(page, limit)
	out, err := a.admin.AdminOrders(ctx, a.creds.Credential(), page, limit)
	if err != nil {
		return nil, fmt.Errorf("admin orders: %w", err)
	}
	return out, nil
}

func (a *OrderActions) AdminUsers(ctx context.Context, page, limit int) (*domain.Page[domain.Principal], error) {
	page, limit = normalisePage(page, limit)
	out, err := a.admin.AdminUsers(ctx, a.creds.Credential(), page, limit)
	if err != nil {
		return nil, fmt.Errorf("admin users: %w", err)
	}
	return out, nil
}

func normalisePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
