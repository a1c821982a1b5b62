package ports

import (
	"context"

	"github.com/waosongs/storefront/internal/core/domain"
)

// AuthGateway is the authentication half of the order backend.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, *domain.Principal, error)
	Signup(ctx context.Context, name, email, password string) (string, *domain.Principal, error)
	Validate(ctx context.Context, token string) (*domain.Principal, error)
}

// OrderGateway covers the customer order endpoints. Every call requires a
// non-empty token and fails with domain.ErrNoCredential before any I/O otherwise.
type OrderGateway interface {
	CreateOrder(ctx context.Context, token string, draft domain.OrderDraft, idempotencyKey string) (*domain.Order, error)
	GetOrder(ctx context.Context, token, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	ProcessPayment(ctx context.Context, token, id, paymentID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, token, id string) (*domain.Order, error)
}

// AdminGateway covers the back-office listings.
type AdminGateway interface {
	AdminOrders(ctx context.Context, token string, page, limit int) (*domain.Page[domain.Order], error)
	AdminUsers(ctx context.Context, token string, page, limit int) (*domain.Page[domain.Principal], error)
}

// PaymentGateway covers the card processors the backend integrates with.
// Like OrderGateway, every call needs a non-empty token.
type PaymentGateway interface {
	InitializeStripe(ctx context.Context, token, orderID string) (*domain.StripeIntent, error)
	InitializePaystack(ctx context.Context, token, orderID, email string) (*domain.PaystackTransaction, error)
	VerifyPaystack(ctx context.Context, token, reference string) (*domain.PaymentVerification, error)
}
