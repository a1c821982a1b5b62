package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

// credentialKey is the durable storage key holding the bearer token.
const credentialKey = "token"

// SessionStore owns the credential and principal of one visitor. The durable
// copy, the side-channel mirror and the in-memory state are always changed
// together under the write lock, mirror first.
type SessionStore struct {
	storage ports.Storage
	auth    ports.AuthGateway
	ttl     time.Duration
	log     zerolog.Logger

	mu        sync.RWMutex
	token     string
	principal *domain.Principal
}

// NewSessionStore returns a signed-out store. Call Restore to pick up a
// credential left in storage by an earlier session.
func NewSessionStore(storage ports.Storage, auth ports.AuthGateway, ttl time.Duration, log zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, auth: auth, ttl: ttl, log: log}
}

// RestoreOutcome is how a session restore ended.
type RestoreOutcome int

const (
	// RestoreSignedOut means no usable credential is stored.
	RestoreSignedOut RestoreOutcome = iota
	// RestoreAuthenticated means the stored credential was accepted.
	RestoreAuthenticated
	// RestoreUnsettled means storage or the backend could not answer. The
	// stored credential is kept and the restore should be attempted again.
	RestoreUnsettled
)

// Restore validates a stored credential. A rejected credential is removed
// from storage and mirror; a network failure leaves storage and mirror alone
// and the store signed out.
func (s *SessionStore) Restore(ctx context.Context, mirror ports.SideChannel) RestoreOutcome {
	token, found, err := s.storage.Get(ctx, credentialKey)
	if err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("could not read stored credential")
		return RestoreUnsettled
	}
	if !found || token == "" {
		s.mu.Lock()
		mirror.Clear()
		s.mu.Unlock()
		return RestoreSignedOut
	}

	principal, err := s.auth.Validate(ctx, token)
	switch {
	case err == nil:
		s.mu.Lock()
		mirror.Mirror(token, principal.Role)
		s.token = token
		s.principal = principal
		s.mu.Unlock()
		return RestoreAuthenticated
	case errors.Is(err, domain.ErrCredentialExpired), errors.Is(err, domain.ErrInvalidResponse):
		s.log.Info().Err(err).Msg("stored credential rejected, signing out")
		s.forget(ctx, mirror)
		return RestoreSignedOut
	default:
		s.log.Warn().Err(err).Msg("could not validate stored credential, will retry")
		return RestoreUnsettled
	}
}

// Login exchanges credentials for a session. On failure the store is untouched.
func (s *SessionStore) Login(ctx context.Context, mirror ports.SideChannel, email, password string) (*domain.Principal, error) {
	token, principal, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}
	s.establish(ctx, mirror, token, principal)
	return s.Principal(), nil
}

// Signup creates an account and signs in with it.
func (s *SessionStore) Signup(ctx context.Context, mirror ports.SideChannel, name, email, password string) (*domain.Principal, error) {
	token, principal, err := s.auth.Signup(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAccountCreationFailed, err)
	}
	s.establish(ctx, mirror, token, principal)
	return s.Principal(), nil
}

// Logout drops the credential everywhere.
func (s *SessionStore) Logout(ctx context.Context, mirror ports.SideChannel) {
	s.forget(ctx, mirror)
}

// Expire is Logout for a credential the backend has rejected mid-session.
func (s *SessionStore) Expire(ctx context.Context, mirror ports.SideChannel) {
	s.log.Info().Msg("credential rejected by backend, signing out")
	s.forget(ctx, mirror)
}

// Reconcile rewrites the mirror from the primary credential when the token or
// role seen on a request has drifted from it.
func (s *SessionStore) Reconcile(mirror ports.SideChannel, observedToken, observedRole string) {
	s.mu.RLock()
	token, role := s.token, ""
	if s.principal != nil {
		role = s.principal.Role
	}
	s.mu.RUnlock()

	if observedToken == token && observedRole == role {
		return
	}
	if token == "" {
		mirror.Clear()
		return
	}
	mirror.Mirror(token, role)
}

// Principal returns a copy of the signed-in identity, or nil.
func (s *SessionStore) Principal() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// Credential returns the bearer token, empty when signed out.
func (s *SessionStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil
}

func (s *SessionStore) establish(ctx context.Context, mirror ports.SideChannel, token string, principal *domain.Principal) {
	if principal.Role == "" {
		principal.Role = domain.RoleUser
	}
	if err := s.storage.Set(ctx, credentialKey, token, s.ttl); err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("credential not persisted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mirror.Mirror(token, principal.Role)
	s.token = token
	s.principal = principal
}

func (s *SessionStore) forget(ctx context.Context, mirror ports.SideChannel) {
	if err := s.storage.Delete(ctx, credentialKey); err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("stored credential not removed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mirror.Clear()
	s.token = ""
	s.principal = nil
}
