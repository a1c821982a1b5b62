package devapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxUploadMemory  = 32 << 20
)

// ── Request / response bodies ────────────────────────────────────────────────

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type paymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
}

type stripeInitRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type paystackInitRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// createOrderForm mirrors the multipart fields the storefront sends.
type createOrderForm struct {
	Category        string `json:"category" form:"category" validate:"required"`
	Occasion        string `json:"occasion" form:"occasion" validate:"required"`
	SongLength      string `json:"songLength" form:"songLength"`
	Deadline        string `json:"deadline" form:"deadline" validate:"required"`
	Tempo           string `json:"tempo" form:"tempo" validate:"required"`
	Mood            string `json:"mood" form:"mood" validate:"required"`
	References      string `json:"references" form:"references"`
	Lyrics          bool   `json:"lyrics" form:"lyrics"`
	VocalGender     string `json:"vocalGender" form:"vocalGender"`
	MusicalStyle    string `json:"musicalStyle" form:"musicalStyle"`
	Instruments     string `json:"instruments" form:"instruments"`
	SpecificDetails string `json:"specificDetails" form:"specificDetails" validate:"required"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  *domain.Principal `json:"user"`
}

// orderResponse wraps the order answered by POST /orders. The other order
// endpoints answer with the bare order.
type orderResponse struct {
	Order *domain.Order `json:"order"`
}

// ── Handler ──────────────────────────────────────────────────────────────────

// Handler serves the development order backend.
type Handler struct {
	accounts *AccountService
	orders   *OrderService
	payments *PaymentService
}

func NewHandler(accounts *AccountService, orders *OrderService, payments *PaymentService) *Handler {
	return &Handler{accounts: accounts, orders: orders, payments: payments}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, user, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, user, err := h.accounts.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Validate answers with the bare account behind the bearer token.
func (h *Handler) Validate(c echo.Context) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer"))
	user, err := h.accounts.Validate(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// CreateOrder accepts the multipart order form. Files arrive as file0..fileN;
// only their metadata is kept.
func (h *Handler) CreateOrder(c echo.Context) error {
	var form createOrderForm
	if err := bind(c, &form); err != nil {
		return err
	}

	var instruments []string
	if form.Instruments != "" {
		if err := json.Unmarshal([]byte(form.Instruments), &instruments); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "instruments must be a JSON array of strings")
		}
	}

	files, err := attachmentMetas(c)
	if err != nil {
		return err
	}

	caller := callerFrom(c)
	order, replayed, err := h.orders.Create(c.Request().Context(), CreateOrderInput{
		CustomerID: caller.ID,
		Draft: domain.OrderDraft{
			Category:        form.Category,
			Occasion:        form.Occasion,
			SongLength:      form.SongLength,
			Deadline:        form.Deadline,
			Tempo:           form.Tempo,
			Mood:            form.Mood,
			References:      form.References,
			Lyrics:          form.Lyrics,
			VocalGender:     form.VocalGender,
			MusicalStyle:    form.MusicalStyle,
			Instruments:     instruments,
			SpecificDetails: form.SpecificDetails,
		},
		Files:          files,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return badRequest(err)
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	return c.JSON(status, orderResponse{Order: order})
}

// ListOrders answers with a bare array of the caller's orders.
func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context(), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.orders.Get(c.Request().Context(), c.Param("id"), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) PayOrder(c echo.Context) error {
	var req paymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Pay(c.Request().Context(), c.Param("id"), req.PaymentID, callerFrom(c))
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c echo.Context) error {
	order, err := h.orders.Cancel(c.Request().Context(), c.Param("id"), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) StripeInitialize(c echo.Context) error {
	var req stripeInitRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	intent, err := h.payments.InitializeStripe(c.Request().Context(), req.OrderID, callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, intent)
}

func (h *Handler) PaystackInitialize(c echo.Context) error {
	var req paystackInitRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tx, err := h.payments.InitializePaystack(c.Request().Context(), req.OrderID, req.Email, callerFrom(c))
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, tx)
}

// PaystackVerify answers 200 with success=false when the reference exists
// but could not settle its order.
func (h *Handler) PaystackVerify(c echo.Context) error {
	v, err := h.payments.VerifyPaystack(c.Request().Context(), c.Param("reference"), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) AdminOrders(c echo.Context) error {
	page, limit := pageParams(c)
	out, err := h.orders.AdminList(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminUsers(c echo.Context) error {
	page, limit := pageParams(c)
	out, err := h.accounts.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func badRequest(err error) error {
	if isInvalidOrder(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func callerFrom(c echo.Context) Caller {
	id, _ := c.Get(middleware.AccountIDKey).(string)
	role, _ := c.Get(middleware.RoleKey).(string)
	return Caller{ID: id, Role: role}
}

func attachmentMetas(c echo.Context) ([]domain.AttachmentMeta, error) {
	req := c.Request()
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body")
	}

	names := make([]string, 0, len(req.MultipartForm.File))
	for name := range req.MultipartForm.File {
		if strings.HasPrefix(name, "file") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(names[i], "file"))
		b, _ := strconv.Atoi(strings.TrimPrefix(names[j], "file"))
		return a < b
	})

	var metas []domain.AttachmentMeta
	for _, name := range names {
		for _, fh := range req.MultipartForm.File[name] {
			metas = append(metas, domain.AttachmentMeta{
				Name:        fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
			})
		}
	}
	return metas, nil
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
