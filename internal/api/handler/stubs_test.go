package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/service"
)

// ---------------------------------------------------------------------------
// In-memory storage
// ---------------------------------------------------------------------------

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (s *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStorage) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ---------------------------------------------------------------------------
// Backend gateway
// ---------------------------------------------------------------------------

type stubGateway struct {
	loginFn    func(email, password string) (string, *domain.Principal, error)
	signupFn   func(name, email, password string) (string, *domain.Principal, error)
	validateFn func(token string) (*domain.Principal, error)
	createFn   func(token string, d domain.OrderDraft, key string) (*domain.Order, error)
	listFn     func(token string) ([]domain.Order, error)
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
	if g.validateFn == nil {
		return nil, domain.ErrCredentialExpired
	}
	return g.validateFn(token)
}

func (g *stubGateway) CreateOrder(_ context.Context, token string, d domain.OrderDraft, key string) (*domain.Order, error) {
	g.mu.Lock()
	g.createCalls++
	g.mu.Unlock()
	return g.createFn(token, d, key)
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
	return &domain.Order{ID: id, Status: domain.OrderPending}, nil
}

func (g *stubGateway) ListOrders(_ context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return g.listFn(token)
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

func (g *stubGateway) AdminOrders(_ context.Context, token string, page, limit int) (*domain.Page[domain.Order], error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return &domain.Page[domain.Order]{Pagination: domain.NewPagination(0, page, limit)}, nil
}

func (g *stubGateway) AdminUsers(_ context.Context, token string, page, limit int) (*domain.Page[domain.Principal], error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	return &domain.Page[domain.Principal]{Pagination: domain.NewPagination(0, page, limit)}, nil
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
// Visitor harness
// ---------------------------------------------------------------------------

const testVisitorID = "5b0c8f5e-8a55-4a53-9d0e-3c1f6f0f2a11"

type harness struct {
	t        *testing.T
	gw       *stubGateway
	storage  *memStorage
	registry *service.VisitorRegistry
}

func newHarness(t *testing.T, gw *stubGateway) *harness {
	t.Helper()
	storage := newMemStorage()
	registry := service.NewVisitorRegistry(service.VisitorDeps{
		Storage:       func(string) ports.Storage { return storage },
		Backend:       gw,
		CredentialTTL: time.Hour,
		DraftTTL:      time.Hour,
		LoginRate:     rate.Inf,
		LoginBurst:    1,
		Log:           zerolog.Nop(),
	}, 16, time.Hour)
	return &harness{t: t, gw: gw, storage: storage, registry: registry}
}

func (h *harness) visitor() *service.Visitor {
	return h.registry.Get(testVisitorID)
}

// call runs handler behind the Visitors middleware as the test visitor.
func (h *harness) call(handler echo.HandlerFunc, method, target string, body io.Reader, contentType string) (*httptest.ResponseRecorder, error) {
	h.t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	req.AddCookie(&http.Cookie{Name: middleware.VisitorCookie, Value: testVisitorID})
	if token := h.visitor().Session.Credential(); token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	if p := h.visitor().Session.Principal(); p != nil {
		req.AddCookie(&http.Cookie{Name: middleware.RoleCookie, Value: p.Role})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := middleware.Visitors(h.registry, middleware.CookieOptions{MaxAge: time.Hour})
	return rec, mw(handler)(c)
}

// signIn logs the test visitor in through the session store.
func (h *harness) signIn(role string) {
	h.t.Helper()
	h.gw.loginFn = func(email, password string) (string, *domain.Principal, error) {
		return "tok-" + role, &domain.Principal{ID: "acc_1", Name: "Ana", Email: email, Role: role}, nil
	}
	v := h.visitor()
	v.EnsureRestored(context.Background(), noopMirror{})
	if _, err := v.Session.Login(context.Background(), noopMirror{}, "ana@example.com", "secret"); err != nil {
		h.t.Fatalf("sign in: %v", err)
	}
}

type noopMirror struct{}

func (noopMirror) Mirror(string, string) {}
func (noopMirror) Clear()                {}

func fillDraft(t *testing.T, v *service.Visitor) {
	t.Helper()
	values := map[domain.DraftField]string{
		domain.FieldCategory:        "pop",
		domain.FieldOccasion:        "wedding",
		domain.FieldDeadline:        "2026-12-01",
		domain.FieldMood:            "romantic",
		domain.FieldSpecificDetails: "our names are Ana and Luis",
	}
	for f, val := range values {
		if err := v.Wizard.UpdateField(f, val); err != nil {
			t.Fatalf("update %s: %v", f, err)
		}
	}
	for v.Wizard.Step() < 4 {
		if err := v.Wizard.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
}
