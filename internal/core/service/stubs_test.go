package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu      sync.Mutex
	data    map[string]string
	sets    map[string]int
	deletes map[string]int
	getErr  error // if set, Get returns this error
	setErr  error // if set, Set returns this error
	delErr  error // if set, Delete returns this error
	// ctxAware makes every call fail with the context's error once it is done,
	// the way a network-backed store does.
	ctxAware bool
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: map[string]string{}, sets: map[string]int{}, deletes: map[string]int{}}
}

func (s *stubStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctxAware && ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStorage) Set(ctx context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctxAware && ctx.Err() != nil {
		return ctx.Err()
	}
	if s.setErr != nil {
		return s.setErr
	}
	s.sets[key]++
	s.data[key] = value
	return nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctxAware && ctx.Err() != nil {
		return ctx.Err()
	}
	if s.delErr != nil {
		return s.delErr
	}
	s.deletes[key]++
	delete(s.data, key)
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ---------------------------------------------------------------------------
// Side-channel mirror
// ---------------------------------------------------------------------------

type stubMirror struct {
	token  string
	role   string
	writes int
	clears int
}

func (m *stubMirror) Mirror(token, role string) {
	m.token, m.role = token, role
	m.writes++
}

func (m *stubMirror) Clear() {
	m.token, m.role = "", ""
	m.clears++
}

// ---------------------------------------------------------------------------
// Backend gateway
// ---------------------------------------------------------------------------

type stubGateway struct {
	loginFn    func(email, password string) (string, *domain.Principal, error)
	signupFn   func(name, email, password string) (string, *domain.Principal, error)
	validateFn func(token string) (*domain.Principal, error)
	createFn   func(ctx context.Context, token string, d domain.OrderDraft, key string) (*domain.Order, error)
	cancelFn   func(token, id string) (*domain.Order, error)
	payFn      func(token, id, paymentID string) (*domain.Order, error)
	stripeFn   func(token, orderID string) (*domain.StripeIntent, error)
	paystackFn func(token, orderID, email string) (*domain.PaystackTransaction, error)
	verifyFn   func(token, reference string) (*domain.PaymentVerification, error)

	mu          sync.Mutex
	createCalls int
}

func (g *stubGateway) Login(_ context.Context, email, password string) (string, *domain.Principal, error) {
	return g.loginFn(email, password)
}

func (g *stubGateway) Signup(_ context.Context, name, email, password string) (string, *domain.Principal, error) {
	return g.signupFn(name, email, password)
}

func (g *stubGateway) Validate(_ context.Context, token string) (*domain.Principal, error) {
	return g.validateFn(token)
}

func (g *stubGateway) CreateOrder(ctx context.Context, token string, d domain.OrderDraft, key string) (*domain.Order, error) {
	g.mu.Lock()
	g.createCalls++
	g.mu.Unlock()
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.createFn(ctx, token, d, key)
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCalls
}

func (g *stubGateway) GetOrder(_ context.Context, token, id string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return &domain.Order{ID: id}, nil
}

func (g *stubGateway) ListOrders(_ context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return []domain.Order{}, nil
}

func (g *stubGateway) ProcessPayment(_ context.Context, token, id, paymentID string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.payFn(token, id, paymentID)
}

func (g *stubGateway) CancelOrder(_ context.Context, token, id string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.cancelFn(token, id)
}

func (g *stubGateway) AdminOrders(_ context.Context, _ string, page, limit int) (*domain.Page[domain.Order], error) {
	return &domain.Page[domain.Order]{Pagination: domain.Pagination{Page: page, Limit: limit}}, nil
}

func (g *stubGateway) AdminUsers(_ context.Context, _ string, page, limit int) (*domain.Page[domain.Principal], error) {
	return &domain.Page[domain.Principal]{Pagination: domain.Pagination{Page: page, Limit: limit}}, nil
}

func (g *stubGateway) InitializeStripe(_ context.Context, token, orderID string) (*domain.StripeIntent, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.stripeFn(token, orderID)
}

func (g *stubGateway) InitializePaystack(_ context.Context, token, orderID, email string) (*domain.PaystackTransaction, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.paystackFn(token, orderID, email)
}

func (g *stubGateway) VerifyPaystack(_ context.Context, token, reference string) (*domain.PaymentVerification, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.verifyFn(token, reference)
}

// ---------------------------------------------------------------------------
// Audit sink and credentials
// ---------------------------------------------------------------------------

type stubAudit struct {
	mu     sync.Mutex
	events []domain.SubmissionEvent
}

func (a *stubAudit) Record(e domain.SubmissionEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) states() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.State)
	}
	return out
}

type staticCreds string

func (c staticCreds) Credential() string { return string(c) }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errNetwork = errors.New("dial tcp: connection refused")

func readyDraft() domain.OrderDraft {
	return domain.OrderDraft{
		Ref:             "ref-42",
		Category:        "pop",
		Occasion:        "wedding",
		SongLength:      "2-3",
		Deadline:        "2026-12-01",
		Tempo:           "moderate",
		Mood:            "romantic",
		Instruments:     []string{"Piano"},
		SpecificDetails: "our names are Ana and Luis",
		Attachments:     []domain.Attachment{{Name: "voice.m4a", Data: []byte{1}}},
	}
}
