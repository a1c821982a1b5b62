package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/wizard"
	"github.com/waosongs/storefront/pkg/logger"
)

// Visitor is everything the storefront keeps for one browser.
type Visitor struct {
	ID      string
	Session *SessionStore
	Wizard  *wizard.Wizard
	Flow    *SubmissionFlow
	Orders  *OrderActions
	// Payments drives the card processor checkouts.
	Payments *PaymentActions
	// Limiter throttles login and signup attempts.
	Limiter *rate.Limiter

	restoreMu sync.Mutex
	restored  bool
}

// EnsureRestored runs the session restore until it settles and reports
// whether this call performed it. An unsettled restore is attempted again on
// the next call.
func (v *Visitor) EnsureRestored(ctx context.Context, mirror ports.SideChannel) bool {
	v.restoreMu.Lock()
	defer v.restoreMu.Unlock()
	if v.restored {
		return false
	}
	if v.Session.Authenticated() {
		v.restored = true
		return false
	}
	if v.Session.Restore(ctx, mirror) != RestoreUnsettled {
		v.restored = true
	}
	return true
}

// Gateway is the full order backend.
type Gateway interface {
	ports.AuthGateway
	ports.OrderGateway
	ports.AdminGateway
	ports.PaymentGateway
}

// VisitorDeps is what a new visitor is wired with.
type VisitorDeps struct {
	// Storage opens the durable keyspace of one visitor.
	Storage       func(visitorID string) ports.Storage
	Backend       Gateway
	Audit         ports.AuditSink
	CredentialTTL time.Duration
	DraftTTL      time.Duration
	LoginRate     rate.Limit
	LoginBurst    int
	Log           zerolog.Logger
}

// VisitorRegistry holds live visitors and tears them down when they expire.
type VisitorRegistry struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Visitor]
	deps  VisitorDeps
}

func NewVisitorRegistry(deps VisitorDeps, size int, lifetime time.Duration) *VisitorRegistry {
	r := &VisitorRegistry{deps: deps}
	r.cache = expirable.NewLRU[string, *Visitor](size, func(id string, v *Visitor) {
		v.Flow.Close()
		deps.Log.Debug().Str("visitor", id).Msg("visitor evicted")
	}, lifetime)
	return r
}

// Get returns the visitor for id, creating it on first sight. Every lookup
// re-adds the visitor, so its lifetime counts from its latest request.
func (r *VisitorRegistry) Get(id string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(id); ok {
		r.cache.Add(id, v)
		return v
	}
	// An expired entry not yet swept is torn down before it is replaced.
	r.cache.Remove(id)
	v := r.newVisitor(id)
	r.cache.Add(id, v)
	return v
}

// Len is the number of live visitors.
func (r *VisitorRegistry) Len() int {
	return r.cache.Len()
}

func (r *VisitorRegistry) newVisitor(id string) *Visitor {
	log := logger.ForVisitor(r.deps.Log, id)
	storage := r.deps.Storage(id)

	session := NewSessionStore(storage, r.deps.Backend, r.deps.CredentialTTL, log)
	drafts := NewDraftPersistence(storage, r.deps.DraftTTL, log)

	return &Visitor{
		ID:       id,
		Session:  session,
		Wizard:   wizard.New(),
		Flow:     NewSubmissionFlow(id, session, r.deps.Backend, drafts, r.deps.Audit, log),
		Orders:   NewOrderActions(session, r.deps.Backend, r.deps.Backend, log),
		Payments: NewPaymentActions(session, r.deps.Backend, log),
		Limiter:  rate.NewLimiter(r.deps.LoginRate, r.deps.LoginBurst),
	}
}
