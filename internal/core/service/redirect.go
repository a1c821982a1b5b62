package service

import (
	"net/url"
	"strings"

	"github.com/waosongs/storefront/internal/core/domain"
)

const (
	DefaultDestination = "/dashboard"
	AdminHome          = "/admin"
	OrderPath          = "/order"
	LoginPath          = "/login"

	// ResumeMarker is the query flag telling the order page it is coming back
	// from the login round trip.
	ResumeMarker = "fromAuth"
)

// LoginRedirect is the login page URL that returns to returnTo afterwards.
func LoginRedirect(returnTo string) string {
	return LoginPath + "?returnTo=" + url.QueryEscape(returnTo)
}

// SuccessRedirect is the confirmation page for a created order.
func SuccessRedirect(orderID string) string {
	return OrderPath + "/success?orderId=" + url.QueryEscape(orderID)
}

// PaymentPage is the checkout page of one order.
func PaymentPage(orderID string) string {
	return OrderPath + "/payment/" + orderID
}

// HomeFor is where a signed-in principal lands by default.
func HomeFor(p *domain.Principal) string {
	if p.IsAdmin() {
		return AdminHome
	}
	return DefaultDestination
}

// PostAuthDestination picks where to send a principal after login or signup.
// Admin paths are honoured verbatim, admins without a specific target go to
// the admin home, and returns into the order flow carry the resume marker.
func PostAuthDestination(returnTo string, p *domain.Principal) string {
	target := localTarget(returnTo)
	path := target
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	switch {
	case underPath(path, AdminHome):
		return target
	case p.IsAdmin() && (target == "" || target == DefaultDestination):
		return AdminHome
	case target == "":
		return DefaultDestination
	case underPath(path, OrderPath):
		return withResumeMarker(target)
	default:
		return target
	}
}

func underPath(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}

// localTarget keeps only same-origin absolute paths. Anything else becomes empty.
func localTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return raw
}

func withResumeMarker(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(ResumeMarker, "true")
	u.RawQuery = q.Encode()
	return u.String()
}
