package service

import (
	"testing"

	"github.com/waosongs/storefront/internal/core/domain"
)

func TestPostAuthDestination(t *testing.T) {
	admin := &domain.Principal{ID: "1", Role: domain.RoleAdmin}
	user := &domain.Principal{ID: "2", Role: domain.RoleUser}

	cases := []struct {
		name     string
		returnTo string
		who      *domain.Principal
		want     string
	}{
		{"admin into order flow", "/order", admin, "/order?fromAuth=true"},
		{"user into order flow", "/order", user, "/order?fromAuth=true"},
		{"order sub page", "/order/payment/12", user, "/order/payment/12?fromAuth=true"},
		{"not the order flow", "/orders", user, "/orders"},
		{"admin path verbatim", "/admin/users?page=2", admin, "/admin/users?page=2"},
		{"admin path for non-admin", "/admin", user, "/admin"},
		{"admin without target", "", admin, "/admin"},
		{"admin with default target", "/dashboard", admin, "/admin"},
		{"user without target", "", user, "/dashboard"},
		{"plain target", "/settings", user, "/settings"},
		{"absolute url", "https://evil.example/x", user, "/dashboard"},
		{"protocol relative", "//evil.example", user, "/dashboard"},
		{"backslash trick", "/\\evil.example", admin, "/admin"},
	}

	for _, tc := range cases {
		if got := PostAuthDestination(tc.returnTo, tc.who); got != tc.want {
			t.Errorf("%s: PostAuthDestination(%q) = %q, want %q", tc.name, tc.returnTo, got, tc.want)
		}
	}
}

func TestLoginRedirect(t *testing.T) {
	if got := LoginRedirect("/order/payment/7"); got != "/login?returnTo=%2Forder%2Fpayment%2F7" {
		t.Errorf("unexpected login redirect %q", got)
	}
}

func TestHomeFor(t *testing.T) {
	if HomeFor(nil) != DefaultDestination {
		t.Error("nil principal must land on the dashboard")
	}
	if HomeFor(&domain.Principal{Role: domain.RoleAdmin}) != AdminHome {
		t.Error("admins land on the admin home")
	}
}
