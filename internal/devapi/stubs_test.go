package devapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts []*domain.Account
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	clone := *a
	clone.ID = fmt.Sprintf("acc_%d", len(r.accounts)+1)
	r.accounts = append(r.accounts, &clone)
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.ID == id })
}

func (r *stubAccountRepo) List(_ context.Context, page, limit int) ([]*domain.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return paginate(r.accounts, page, limit), int64(len(r.accounts)), nil
}

func (r *stubAccountRepo) find(match func(*domain.Account) bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// ---------------------------------------------------------------------------
// In-memory order repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu             sync.Mutex
	byID           map[string]*domain.Order
	lastFindFilter string
	creates        int
	createErr      error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	clone := *o
	r.byID[o.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id, customerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFindFilter = customerID
	o, ok := r.byID[id]
	if !ok || (customerID != "" && o.CustomerID != customerID) {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.byID {
		if o.IdempotencyKey == key {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Order
	for _, o := range r.byID {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	clone := *o
	r.byID[o.ID] = &clone
	return nil
}

func (r *stubOrderRepo) seed(o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[o.ID] = &o
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(items) {
		return []T{}
	}
	end := min(skip+limit, len(items))
	return items[skip:end]
}

// ---------------------------------------------------------------------------
// In-memory idempotency cache
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	mu        sync.Mutex
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; !ok {
		s.keys[key] = orderID
	}
	return nil
}

var errCacheDown = errors.New("redis: connection refused")
