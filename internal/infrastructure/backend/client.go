// Package backend is the HTTP client for the order backend REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/core/domain"
)

const (
	DefaultTimeout = 15 * time.Second

	// IdempotencyHeader carries the key that makes order creation retry-safe.
	IdempotencyHeader = "Idempotency-Key"

	maxBodyBytes = 1 << 20
)

// Config holds the backend location and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the order backend. Authenticated calls with an empty token
// fail with domain.ErrNoCredential without touching the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        log,
	}
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	var out authResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", nil, err
	}
	return out.Token, out.User.principal(), nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (string, *domain.Principal, error) {
	var out authResponse
	if err := c.doJSON(ctx, "signup", http.MethodPost, "/auth/signup", "", signupRequest{Name: name, Email: email, Password: password}, &out); err != nil {
		return "", nil, err
	}
	return out.Token, out.User.principal(), nil
}

// Validate checks token and returns its principal. The backend answers with
// the bare user object.
func (c *Client) Validate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out userPayload
	if err := c.doJSON(ctx, "validate", http.MethodGet, "/auth/validate", token, nil, &out); err != nil {
		return nil, err
	}
	return out.principal(), nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

// CreateOrder submits the draft as multipart form data: scalar fields, the
// instruments as a JSON array and each attachment as file0..fileN.
func (c *Client) CreateOrder(ctx context.Context, token string, draft domain.OrderDraft, idempotencyKey string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		return nil, fmt.Errorf("create order: encode draft: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/orders", token, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyHeader, idempotencyKey)
	}

	var out orderResponse
	if err := c.do(req, "create_order", true, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.Order
	if err := c.doJSON(ctx, "get_order", http.MethodGet, "/orders/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders returns the caller's orders. Anything but a JSON array of
// orders with ids is an invalid response.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out []domain.Order
	if err := c.doJSON(ctx, "list_orders", http.MethodGet, "/orders", token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: list_orders: expected an array", domain.ErrInvalidResponse)
	}
	for i := range out {
		if err := c.validate.Struct(&out[i]); err != nil {
			return nil, fmt.Errorf("%w: list_orders: %v", domain.ErrInvalidResponse, err)
		}
	}
	return out, nil
}

func (c *Client) ProcessPayment(ctx context.Context, token, id, paymentID string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.Order
	path := "/orders/" + url.PathEscape(id) + "/payment"
	if err := c.doJSON(ctx, "process_payment", http.MethodPost, path, token, paymentRequest{PaymentID: paymentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.Order
	path := "/orders/" + url.PathEscape(id) + "/cancel"
	if err := c.doJSON(ctx, "cancel_order", http.MethodPost, path, token, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

// InitializeStripe creates a payment intent for the order.
func (c *Client) InitializeStripe(ctx context.Context, token, orderID string) (*domain.StripeIntent, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.StripeIntent
	if err := c.doJSON(ctx, "stripe_initialize", http.MethodPost, "/payment/stripe/initialize", token, stripeInitRequest{OrderID: orderID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializePaystack opens a Paystack transaction and returns its reference.
func (c *Client) InitializePaystack(ctx context.Context, token, orderID, email string) (*domain.PaystackTransaction, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.PaystackTransaction
	if err := c.doJSON(ctx, "paystack_initialize", http.MethodPost, "/payment/paystack/initialize", token, paystackInitRequest{OrderID: orderID, Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPaystack asks the backend whether the transaction behind reference settled.
func (c *Client) VerifyPaystack(ctx context.Context, token, reference string) (*domain.PaymentVerification, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.PaymentVerification
	path := "/payment/paystack/verify/" + url.PathEscape(reference)
	if err := c.doJSON(ctx, "paystack_verify", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Admin ────────────────────────────────────────────────────────────────────

func (c *Client) AdminOrders(ctx context.Context, token string, page, limit int) (*domain.Page[domain.Order], error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.Page[domain.Order]
	if err := c.doJSON(ctx, "admin_orders", http.MethodGet, "/admin/orders?"+pageQuery(page, limit), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUsers(ctx context.Context, token string, page, limit int) (*domain.Page[domain.Principal], error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	var out domain.Page[domain.Principal]
	if err := c.doJSON(ctx, "admin_users", http.MethodGet, "/admin/users?"+pageQuery(page, limit), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend health: status %d", resp.StatusCode)
	}
	return nil
}

// ── Transport ────────────────────────────────────────────────────────────────

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, op, token != "", out)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends req and normalises the answer. On authenticated calls a 401 means
// the credential is no longer accepted; on anonymous calls it is an ordinary
// failure.
func (c *Client) do(req *http.Request, op string, authenticated bool, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		if isTimeout(err) {
			return &domain.RequestFailedError{
				StatusCode: http.StatusGatewayTimeout,
				Message:    "The server took too long to respond. Please try again.",
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		return domain.ErrCredentialExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp)
		c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Str("message", msg).Msg("backend request failed")
		return &domain.RequestFailedError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidResponse, op, err)
	}
	if isStructPtr(out) {
		if err := c.validate.Struct(out); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidResponse, op, err)
		}
	}
	return nil
}

// errorMessage extracts the backend's explanation, falling back to the status line.
func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isStructPtr(v any) bool {
	switch v.(type) {
	case *authResponse, *userPayload, *orderResponse, *domain.Order,
		*domain.Page[domain.Order], *domain.Page[domain.Principal],
		*domain.StripeIntent, *domain.PaystackTransaction:
		return true
	}
	return false
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q.Encode()
}

// encodeDraft renders the draft as a multipart body.
func encodeDraft(d domain.OrderDraft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"category", d.Category},
		{"occasion", d.Occasion},
		{"songLength", d.SongLength},
		{"deadline", d.Deadline},
		{"tempo", d.Tempo},
		{"mood", d.Mood},
		{"references", d.References},
		{"lyrics", strconv.FormatBool(d.Lyrics)},
		{"vocalGender", d.VocalGender},
		{"musicalStyle", d.MusicalStyle},
		{"specificDetails", d.SpecificDetails},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	instruments := d.Instruments
	if instruments == nil {
		instruments = []string{}
	}
	raw, err := json.Marshal(instruments)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("instruments", string(raw)); err != nil {
		return nil, "", err
	}

	for i, a := range d.Attachments {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file%d"; filename=%q`, i, a.Name))
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(a.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
