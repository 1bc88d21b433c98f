package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/dmitrymomot/billingkit/pkg/tax"
)

// customerExpand is what GetCustomer needs in a single round trip.
var customerExpand = []string{
	"tax_ids",
	"sources",
	"subscriptions",
	"subscriptions.data.default_payment_method",
	"invoice_settings.default_payment_method",
}

// StripeProcessor implements Processor on the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// StripeOption configures a StripeProcessor.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	backends *stripe.Backends
}

// WithStripeBackends routes API calls through custom backends, e.g. a local stub server.
func WithStripeBackends(b *stripe.Backends) StripeOption {
	return func(o *stripeOptions) {
		o.backends = b
	}
}

// NewStripeProcessor creates a Stripe-backed Processor.
func NewStripeProcessor(cfg StripeConfig, opts ...StripeOption) (*StripeProcessor, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, ErrMissingCredential
	}

	var o stripeOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &StripeProcessor{api: client.New(cfg.SecretKey, o.backends)}, nil
}

// NewStripeProcessorFromClient wraps an already configured Stripe client.
func NewStripeProcessorFromClient(api *client.API) (*StripeProcessor, error) {
	if api == nil {
		return nil, ErrMissingCredential
	}
	return &StripeProcessor{api: api}, nil
}

func (p *StripeProcessor) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	for _, field := range customerExpand {
		params.AddExpand(field)
	}

	c, err := p.api.Customers.Get(id, params)
	if err != nil {
		return nil, mapCustomerError(err)
	}
	if c.Deleted {
		return nil, ErrCustomerNotFound
	}

	return customerFromStripe(c), nil
}

func (p *StripeProcessor) CreateCustomer(ctx context.Context, in CustomerParams) (*Customer, error) {
	params := customerParams(in)
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return customerFromStripe(c), nil
}

func (p *StripeProcessor) UpdateCustomer(ctx context.Context, id string, in CustomerParams) error {
	params := customerParams(in)
	params.Context = ctx

	_, err := p.api.Customers.Update(id, params)
	return mapCustomerError(err)
}

func (p *StripeProcessor) DeleteCustomer(ctx context.Context, id string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	_, err := p.api.Customers.Del(id, params)
	return mapCustomerError(err)
}

func (p *StripeProcessor) CreateTaxID(ctx context.Context, customerID string, id tax.ID) error {
	params := &stripe.TaxIDParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(id.Type),
		Value:    stripe.String(id.Value),
	}
	params.Context = ctx

	_, err := p.api.TaxIDs.New(params)
	return mapStripeError(err)
}

func (p *StripeProcessor) DeleteTaxID(ctx context.Context, customerID, taxIDID string) error {
	params := &stripe.TaxIDParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	_, err := p.api.TaxIDs.Del(taxIDID, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	_, err := p.api.PaymentMethods.Attach(paymentMethodID, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	_, err := p.api.Customers.Update(customerID, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	_, err := p.api.PaymentMethods.Detach(paymentMethodID, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) CreateSubscription(ctx context.Context, in SubscriptionParams) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(in.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(in.Plan)},
		},
		OffSession: stripe.Bool(true),
	}
	if in.Coupon != "" {
		params.Coupon = stripe.String(in.Coupon)
	}
	if in.TaxRate != "" {
		params.DefaultTaxRates = stripe.StringSlice([]string{in.TaxRate})
	}
	if in.TrialDays > 0 {
		params.TrialPeriodDays = stripe.Int64(int64(in.TrialDays))
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	s, err := p.api.Subscriptions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return subscriptionFromStripe(s), nil
}

func (p *StripeProcessor) ChangeSubscriptionPlan(ctx context.Context, id string, in PlanChangeParams) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(in.ItemID), Price: stripe.String(in.Plan)},
		},
		BillingCycleAnchorNow: stripe.Bool(true),
		OffSession:            stripe.Bool(true),
	}
	if in.Coupon != "" {
		params.Coupon = stripe.String(in.Coupon)
	}
	if in.TaxRate != "" {
		params.DefaultTaxRates = stripe.StringSlice([]string{in.TaxRate})
	}
	params.Context = ctx

	s, err := p.api.Subscriptions.Update(id, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return subscriptionFromStripe(s), nil
}

func (p *StripeProcessor) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(cancel)}
	params.Context = ctx

	_, err := p.api.Subscriptions.Update(id, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) CancelSubscription(ctx context.Context, id string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	_, err := p.api.Subscriptions.Cancel(id, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	inv, err := p.api.Invoices.Get(id, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	out := invoiceFromStripe(inv)
	return &out, nil
}

func (p *StripeProcessor) PayInvoice(ctx context.Context, id string) error {
	params := &stripe.InvoicePayParams{}
	params.Context = ctx

	_, err := p.api.Invoices.Pay(id, params)
	return mapStripeError(err)
}

func (p *StripeProcessor) ListPaidInvoices(ctx context.Context, customerID string, limit int) ([]Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.InvoiceStatusPaid)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(limit))

	var out []Invoice
	iter := p.api.Invoices.List(params)
	for iter.Next() {
		out = append(out, invoiceFromStripe(iter.Invoice()))
		if len(out) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, mapStripeError(err)
	}

	return out, nil
}

func (p *StripeProcessor) GetCoupon(ctx context.Context, code string) (*Coupon, error) {
	params := &stripe.CouponParams{}
	params.Context = ctx

	c, err := p.api.Coupons.Get(code, params)
	if err != nil {
		if isStripeNotFound(err) {
			return nil, errors.Join(ErrCouponNotFound, err)
		}
		return nil, mapStripeError(err)
	}

	return &Coupon{ID: c.ID, Valid: c.Valid}, nil
}

func (p *StripeProcessor) CreateSetupIntent(ctx context.Context) (string, error) {
	params := &stripe.SetupIntentParams{Usage: stripe.String("off_session")}
	params.Context = ctx

	si, err := p.api.SetupIntents.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}

	return si.ClientSecret, nil
}

func customerParams(in CustomerParams) *stripe.CustomerParams {
	params := &stripe.CustomerParams{
		Name:  optString(in.Name),
		Email: optString(in.Email),
	}
	if in.Country != "" || in.Postcode != "" {
		params.Address = &stripe.AddressParams{
			Country:    optString(in.Country),
			PostalCode: optString(in.Postcode),
		}
	}
	if in.TaxExempt != tax.ExemptUnknown {
		params.TaxExempt = stripe.String(string(in.TaxExempt))
	}
	return params
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return stripe.String(s)
}

// mapCustomerError reports a missing customer as ErrCustomerNotFound.
func mapCustomerError(err error) error {
	if isStripeNotFound(err) {
		return errors.Join(ErrCustomerNotFound, err)
	}
	return mapStripeError(err)
}

// mapStripeError turns card declines into *PaymentError.
func mapStripeError(err error) error {
	if err == nil {
		return nil
	}

	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}

	if se.Type == stripe.ErrorTypeCard {
		return &PaymentError{
			Code:        string(se.Code),
			DeclineCode: string(se.DeclineCode),
			Message:     se.Msg,
			Err:         err,
		}
	}

	return fmt.Errorf("stripe %s: %w", se.Type, err)
}

func isStripeNotFound(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound
}
