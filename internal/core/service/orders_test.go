package service

import (
	"context"
	"errors"
	"testing"

	"github.com/waosongs/storefront/internal/core/domain"
)

func TestOrderActions_Cancel(t *testing.T) {
	gw := &stubGateway{cancelFn: func(_, id string) (*domain.Order, error) {
		return &domain.Order{ID: id, Status: domain.OrderCancelled}, nil
	}}
	a := NewOrderActions(staticCreds("tok"), gw, gw, discardLogger)

	out, err := a.Cancel(context.Background(), "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Redirect != DefaultDestination || out.Order.Status != domain.OrderCancelled {
		t.Errorf("unexpected action %+v", out)
	}
}

func TestOrderActions_Cancel_SignedOut(t *testing.T) {
	gw := &stubGateway{}
	a := NewOrderActions(staticCreds(""), gw, gw, discardLogger)

	out, err := a.Cancel(context.Background(), "5")
	if !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if out.Redirect != "/login?returnTo=%2Fdashboard" {
		t.Errorf("unexpected redirect %q", out.Redirect)
	}
}

func TestOrderActions_Pay(t *testing.T) {
	gw := &stubGateway{payFn: func(_, id, paymentID string) (*domain.Order, error) {
		return nil, domain.ErrCredentialExpired
	}}
	a := NewOrderActions(staticCreds("tok"), gw, gw, discardLogger)

	if _, err := a.Pay(context.Background(), "9", ""); !errors.Is(err, ErrMissingPaymentID) {
		t.Errorf("expected ErrMissingPaymentID, got %v", err)
	}
	out, err := a.Pay(context.Background(), "9", "pay_1")
	if !domain.NeedsAuthentication(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if out.Redirect != "/login?returnTo=%2Forder%2Fpayment%2F9" {
		t.Errorf("unexpected redirect %q", out.Redirect)
	}
}

func TestOrderActions_AdminOrders_NormalisesPage(t *testing.T) {
	gw := &stubGateway{}
	a := NewOrderActions(staticCreds("tok"), gw, gw, discardLogger)

	page, err := a.AdminOrders(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != maxPageLimit {
		t.Errorf("unexpected paging %+v", page.Pagination)
	}
}
