package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/validator"
)

// Service is the billing capability behind the endpoints. *billing.Manager implements it.
type Service interface {
	Manage(ctx context.Context, customerID string, opts billing.ManageOptions) (*billing.ManageResult, error)
	GetSubscription(ctx context.Context, customerID string) (*billing.ParsedSubscription, error)
	CancelSubscription(ctx context.Context, customerID string, atPeriodEnd bool) error
	ReactivateSubscription(ctx context.Context, customerID string) error
	Receipts(ctx context.Context, customerID string) ([]billing.Receipt, error)
	ValidateCoupon(ctx context.Context, code string) bool
	ValidateVATNumber(ctx context.Context, q string) bool
	ClientSecret(ctx context.Context) (string, error)
}

// CustomerResolver returns the processor customer id of the current visitor, or "".
type CustomerResolver func(r *http.Request) string

// QueryCustomer reads the customer id from the "customer" query parameter.
func QueryCustomer(r *http.Request) string {
	return r.URL.Query().Get("customer")
}

// Handler serves the checkout endpoints.
type Handler struct {
	svc            Service
	log            *slog.Logger
	customer       CustomerResolver
	defaultPlan    string
	publishableKey string
	busy           inflight
	mux            chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithCustomerResolver replaces QueryCustomer.
func WithCustomerResolver(fn CustomerResolver) Option {
	return func(h *Handler) {
		if fn != nil {
			h.customer = fn
		}
	}
}

// WithDefaultPlan sets the plan used when a POST /subscription names none.
func WithDefaultPlan(plan string) Option {
	return func(h *Handler) {
		h.defaultPlan = plan
	}
}

// WithPublishableKey sets the key returned by GET /setup-intent for the client SDK.
func WithPublishableKey(key string) Option {
	return func(h *Handler) {
		h.publishableKey = key
	}
}

// New creates a Handler.
func New(svc Service, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		log:      logger.Discard(),
		customer: QueryCustomer,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.mux = h.routes()
	return h
}

// Routes returns the router with every endpoint mounted, for use with chi's Mount.
func (h *Handler) Routes() chi.Router {
	return h.mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz())
	r.Get("/vat", h.validateVAT)
	r.Get("/coupon", h.validateCoupon)
	r.Get("/setup-intent", h.setupIntent)
	r.Get("/receipts", h.receipts)

	r.Route("/subscription", func(r chi.Router) {
		r.Get("/", h.getSubscription)
		r.Post("/", h.manageSubscription)
		r.Post("/cancel", h.cancelSubscription)
		r.Post("/reactivate", h.reactivateSubscription)
	})

	return r
}

type validity struct {
	Valid bool `json:"valid"`
}

func (h *Handler) validateVAT(w http.ResponseWriter, r *http.Request) {
	valid := h.svc.ValidateVATNumber(r.Context(), r.URL.Query().Get("q"))
	writeData(w, validityStatus(valid), validity{Valid: valid})
}

func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	valid := h.svc.ValidateCoupon(r.Context(), r.URL.Query().Get("q"))
	writeData(w, validityStatus(valid), validity{Valid: valid})
}

func validityStatus(valid bool) int {
	if valid {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

func (h *Handler) setupIntent(w http.ResponseWriter, r *http.Request) {
	secret, err := h.svc.ClientSecret(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"client_secret":   secret,
		"publishable_key": h.publishableKey,
	})
}

func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSubscription(r.Context(), h.customer(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

func (h *Handler) receipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.svc.Receipts(r.Context(), h.customer(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, receipts)
}

// ManageResponse is returned by a successful POST /subscription.
type ManageResponse struct {
	Customer string `json:"customer"`
	// PaymentError is set when a pending invoice was retried and the retry failed.
	PaymentError string `json:"payment_error,omitempty"`
}

func (h *Handler) manageSubscription(w http.ResponseWriter, r *http.Request) {
	customerID := h.customer(r)

	req, err := decodeSubscriptionRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, ErrInvalidBody.Error(), nil)
		return
	}
	if err := req.validate(customerID == ""); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Plan == "" {
		req.Plan = h.defaultPlan
	}

	key := customerID
	if key == "" {
		key = "email:" + req.Email
	}
	if !h.busy.acquire(key) {
		writeError(w, http.StatusConflict, codeConflict, ErrRequestInProgress.Error(), nil)
		return
	}
	defer h.busy.release(key)

	res, err := h.svc.Manage(r.Context(), customerID, req.manageOptions())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := ManageResponse{Customer: res.CustomerID}
	if res.Retry.Err != nil {
		out.PaymentError = paymentMessage(res.Retry.Err)
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	customerID := h.customer(r)
	if customerID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, ErrCustomerRequired.Error(), nil)
		return
	}
	if err := h.svc.CancelSubscription(r.Context(), customerID, true); err != nil {
		h.fail(w, r, err)
		return
	}
	h.getSubscription(w, r)
}

func (h *Handler) reactivateSubscription(w http.ResponseWriter, r *http.Request) {
	customerID := h.customer(r)
	if customerID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, ErrCustomerRequired.Error(), nil)
		return
	}
	if err := h.svc.ReactivateSubscription(r.Context(), customerID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.getSubscription(w, r)
}

// fail maps err to a status and error envelope. Unexpected errors are logged and hidden.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *billing.PaymentError

	switch {
	case validator.IsValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "validation failed",
			validator.ExtractValidationErrors(err).Details())
	case errors.Is(err, billing.ErrCouponNotFound):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "validation failed",
			map[string][]string{"coupon": {err.Error()}})
	case errors.Is(err, billing.ErrInvalidVATNumber):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "validation failed",
			map[string][]string{"vat": {err.Error()}})
	case errors.As(err, &pe):
		writeError(w, http.StatusPaymentRequired, codePayment, pe.Message, nil)
	case errors.Is(err, billing.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, billing.ErrCustomerNotFound.Error(), nil)
	default:
		h.log.ErrorContext(r.Context(), "checkout request failed",
			logger.Component("checkout"),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternalError, nil)
	}
}

func paymentMessage(err error) string {
	var pe *billing.PaymentError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return "payment failed"
}
