package devapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

// maxCustomerOrders bounds the customer order listing, which is not paginated.
const maxCustomerOrders = 200

// CreateOrderInput is a validated order request.
type CreateOrderInput struct {
	CustomerID     string
	Draft          domain.OrderDraft
	Files          []domain.AttachmentMeta
	IdempotencyKey string
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) scope() string {
	if c.Role == domain.RoleAdmin {
		return ""
	}
	return c.ID
}

// OrderService owns order creation and the customer lifecycle actions.
type OrderService struct {
	repo   ports.OrderRepository
	idem   ports.IdempotencyStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, idem: idem, now: time.Now, logger: logger}
}

// Create stores a new order. A key already seen for the same customer returns
// the order it produced and reports replayed.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (order *domain.Order, replayed bool, err error) {
	key := ""
	if in.IdempotencyKey != "" {
		key = in.CustomerID + ":" + in.IdempotencyKey
		if existing := s.replay(ctx, key); existing != nil {
			metrics.OrdersReplayedTotal.Inc()
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
			return existing, true, nil
		}
	}

	now := s.now().UTC()
	price, err := quote(in.Draft.SongLength, in.Draft.Deadline, now)
	if err != nil {
		return nil, false, err
	}

	d := in.Draft
	order = &domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		Category:        d.Category,
		Occasion:        d.Occasion,
		SongLength:      d.SongLength,
		Deadline:        d.Deadline,
		Tempo:           d.Tempo,
		Mood:            d.Mood,
		References:      d.References,
		Lyrics:          d.Lyrics,
		VocalGender:     d.VocalGender,
		MusicalStyle:    d.MusicalStyle,
		Instruments:     d.Instruments,
		SpecificDetails: d.SpecificDetails,
		Files:           in.Files,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentUnpaid,
		TotalPrice:      price,
		IdempotencyKey:  key,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, false, err
	}
	if key != "" {
		if err := s.idem.Remember(ctx, key, order.ID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("idempotency key not cached")
		}
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.SongLength).Inc()
	s.logger.Info().Str("order_id", order.ID).Str("customer_id", in.CustomerID).Float64("total_price", price).Msg("order created")
	return order, false, nil
}

// replay looks the key up in the cache first and in the order collection
// second. Lookup failures fall through to a fresh create.
func (s *OrderService) replay(ctx context.Context, key string) *domain.Order {
	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency cache unavailable")
	}
	if found {
		if existing, err := s.repo.FindByID(ctx, id, ""); err == nil {
			return existing
		}
	}
	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil
	}
	if err := s.idem.Remember(ctx, key, existing.ID); err != nil {
		s.logger.Warn().Err(err).Msg("idempotency key not cached")
	}
	return existing
}

// Get returns an order. Admins see every order; everyone else only their own.
func (s *OrderService) Get(ctx context.Context, id string, caller Caller) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id, caller.scope())
}

// List returns the caller's orders, newest first.
func (s *OrderService) List(ctx context.Context, caller Caller) ([]domain.Order, error) {
	orders, _, err := s.repo.List(ctx, ports.ListOrdersFilter{CustomerID: caller.ID, Page: 1, Limit: maxCustomerOrders})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, *o)
	}
	return out, nil
}

// Pay records a payment against an unpaid, live order.
func (s *OrderService) Pay(ctx context.Context, id, paymentID string, caller Caller) (*domain.Order, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: paymentId is required", ErrInvalidOrder)
	}
	order, err := s.repo.FindByID(ctx, id, caller.scope())
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if order.Status == domain.OrderCancelled {
		return nil, domain.ErrInvalidTransition
	}

	order.PaymentStatus = domain.PaymentPaid
	order.PaymentID = paymentID
	order.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", id).Str("payment_id", paymentID).Msg("order paid")
	return order, nil
}

// Cancel moves the order to cancelled when its status allows it.
func (s *OrderService) Cancel(ctx context.Context, id string, caller Caller) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id, caller.scope())
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderCancelled)
	}

	order.Status = domain.OrderCancelled
	order.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", id).Msg("order cancelled")
	return order, nil
}

// AdminList returns one page of every customer's orders.
func (s *OrderService) AdminList(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error) {
	orders, total, err := s.repo.List(ctx, ports.ListOrdersFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	data := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		data = append(data, *o)
	}
	return &domain.Page[domain.Order]{Data: data, Pagination: domain.NewPagination(total, page, limit)}, nil
}

// isInvalidOrder reports whether err is a rejected order request.
func isInvalidOrder(err error) bool {
	return errors.Is(err, ErrInvalidOrder)
}
