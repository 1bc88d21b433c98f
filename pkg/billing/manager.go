package billing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/tax"
	"github.com/dmitrymomot/billingkit/pkg/vat"
)

// Manager drives customer, tax-ID, payment-method and subscription state on a Processor.
// It holds no state of its own between calls.
type Manager struct {
	processor Processor
	vat       VATVerifier
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets tax, trial and plan defaults.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithVATVerifier replaces the default VIES client.
func WithVATVerifier(v VATVerifier) Option {
	return func(m *Manager) {
		if v != nil {
			m.vat = v
		}
	}
}

// WithClock overrides the time source used for card expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager over p.
func NewManager(p Processor, opts ...Option) (*Manager, error) {
	if p == nil {
		return nil, ErrMissingCredential
	}

	m := &Manager{
		processor: p,
		log:       logger.Discard(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	if m.vat == nil {
		m.vat = vat.New(vat.Config{}, vat.WithLogger(m.log))
	}

	return m, nil
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// ManageOptions is the caller input for a subscription mutation. Empty fields are
// left alone, except VAT which is cleared from the customer when empty.
type ManageOptions struct {
	Email         string
	Name          string
	Country       string
	Postcode      string
	VAT           string
	Coupon        string
	PaymentMethod string
	Plan          string
	// TrialDays overrides Config.TrialDays for new subscriptions when set. Zero asks for no trial.
	TrialDays *int
}

// ManageResult reports the outcome of Manage.
type ManageResult struct {
	CustomerID string
	Tax        tax.Decision
	Retry      RetryResult
}

// Manage creates or updates the customer and brings its tax ID, payment method and
// subscription in line with opts. Steps run strictly in order. A failing step aborts the
// remaining ones; completed steps are not rolled back.
func (m *Manager) Manage(ctx context.Context, customerID string, opts ManageOptions) (*ManageResult, error) {
	opts.Country = strings.ToUpper(strings.TrimSpace(opts.Country))
	opts.VAT = vat.CleanNumber(opts.VAT)

	if err := m.prevalidate(ctx, opts); err != nil {
		return nil, err
	}

	decision := tax.Classify(opts.Country, opts.VAT, m.cfg.TaxOrigin, m.cfg.RateTable())
	m.log.DebugContext(ctx, "tax classified",
		logger.Component("billing"),
		logger.Event("tax.classify"),
		slog.String("country", opts.Country),
		slog.String("exempt", string(decision.Exempt)),
		slog.Bool("taxed", decision.HasRate()),
		slog.String("tax_rate", decision.Rate),
	)

	details := CustomerDetails{Name: opts.Name, Email: opts.Email, Country: opts.Country, Postcode: opts.Postcode}
	customer, err := m.CreateOrUpdateCustomer(ctx, customerID, details, decision)
	if err != nil {
		return nil, err
	}

	if err := m.ReconcileTaxID(ctx, customer.ID, customer.TaxIDs, decision.ID); err != nil {
		return nil, err
	}

	var oldPaymentMethod string
	if customer.DefaultPaymentMethod != nil {
		oldPaymentMethod = customer.DefaultPaymentMethod.ID
	}
	if err := m.ReconcilePaymentMethod(ctx, customer.ID, opts.PaymentMethod, oldPaymentMethod); err != nil {
		return nil, err
	}

	trialDays := m.cfg.TrialDays
	if opts.TrialDays != nil {
		trialDays = *opts.TrialDays
	}
	retry, err := m.ReconcilePlanAndInvoice(ctx, customer, PlanChange{
		Plan:      opts.Plan,
		Coupon:    opts.Coupon,
		TaxRate:   decision.Rate,
		TrialDays: trialDays,
	})
	if err != nil {
		return nil, err
	}

	m.log.InfoContext(ctx, "subscription managed",
		logger.Component("billing"),
		logger.CustomerID(customer.ID),
		logger.Plan(opts.Plan),
		slog.Bool("payment_retried", retry.Retried),
	)

	return &ManageResult{CustomerID: customer.ID, Tax: decision, Retry: retry}, nil
}

func (m *Manager) prevalidate(ctx context.Context, opts ManageOptions) error {
	if opts.Coupon != "" {
		coupon, err := m.processor.GetCoupon(ctx, opts.Coupon)
		if err != nil {
			if errors.Is(err, ErrCouponNotFound) {
				return ErrCouponNotFound
			}
			return errors.Join(errors.New("retrieve coupon"), err)
		}
		if !coupon.Valid {
			return ErrCouponNotFound
		}
	}

	if opts.VAT != "" {
		if !m.verifyVAT(ctx, opts.Country, opts.VAT) {
			return ErrInvalidVATNumber
		}
	}

	return nil
}

// verifyVAT falls back to the number's own prefix when no country was given.
func (m *Manager) verifyVAT(ctx context.Context, country, number string) bool {
	if country == "" && len(number) >= 2 {
		country = number[:2]
	}
	return m.vat.Verify(ctx, country, number)
}
