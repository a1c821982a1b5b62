// Package devapi is a small order backend for local development. It speaks the
// wire format the storefront client expects and stores its records in MongoDB.
package devapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

// AccountService implements registration, login and token verification.
type AccountService struct {
	repo      ports.AccountRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAccountService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Signup creates a user account and signs it in.
func (s *AccountService) Signup(ctx context.Context, name, email, password string) (string, *domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}
	return s.issue(created)
}

// Login checks the password and returns a fresh token. An unknown email and a
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	return s.issue(account)
}

// Authenticate verifies the signature and expiry of token and returns the
// identity carried in its claims.
func (s *AccountService) Authenticate(token string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidCredentials
	}
	p := &domain.Principal{ID: sub}
	p.Role, _ = claims["role"].(string)
	p.Name, _ = claims["name"].(string)
	p.Email, _ = claims["email"].(string)
	return p, nil
}

// Validate resolves token to the current state of its account.
func (s *AccountService) Validate(ctx context.Context, token string) (*domain.Principal, error) {
	p, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.FindByID(ctx, p.ID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	principal := account.Principal()
	return &principal, nil
}

// List returns one page of accounts for the back office.
func (s *AccountService) List(ctx context.Context, page, limit int) (*domain.Page[domain.Principal], error) {
	accounts, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]domain.Principal, 0, len(accounts))
	for _, a := range accounts {
		data = append(data, a.Principal())
	}
	return &domain.Page[domain.Principal]{Data: data, Pagination: domain.NewPagination(total, page, limit)}, nil
}

func (s *AccountService) issue(account *domain.Account) (string, *domain.Principal, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"name":  account.Name,
		"email": account.Email,
		"role":  account.Role,
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	p := account.Principal()
	return token, &p, nil
}
