package ports

import (
	"context"

	"github.com/waosongs/storefront/internal/core/domain"
)

// AccountRepository defines persistence operations for customer accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// List returns a page of accounts and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.Account, int64, error)
}

// ListOrdersFilter carries the query parameters for listing orders.
type ListOrdersFilter struct {
	CustomerID string // empty = every customer (admin)
	Page       int    // 1-based
	Limit      int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// FindByID retrieves an order. When customerID is non-empty the lookup is
	// additionally scoped to that customer.
	FindByID(ctx context.Context, id, customerID string) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// Update replaces status and payment fields.
	Update(ctx context.Context, order *domain.Order) error
}

// IdempotencyStore remembers which order a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (orderID string, found bool, err error)
	Remember(ctx context.Context, key, orderID string) error
}
