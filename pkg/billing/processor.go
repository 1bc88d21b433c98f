package billing

import (
	"context"

	"github.com/dmitrymomot/billingkit/pkg/tax"
)

// Processor is the payment-processor capability the Manager orchestrates.
// Implementations return ErrCustomerNotFound (wrapped) when a customer is missing or
// deleted, and *PaymentError when a payment method is rejected. Every other failure is
// returned as is.
type Processor interface {
	// GetCustomer returns the customer with tax IDs, sources, subscriptions and
	// default payment methods populated.
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, params CustomerParams) (*Customer, error)
	UpdateCustomer(ctx context.Context, id string, params CustomerParams) error
	DeleteCustomer(ctx context.Context, id string) error

	CreateTaxID(ctx context.Context, customerID string, id tax.ID) error
	DeleteTaxID(ctx context.Context, customerID, taxIDID string) error

	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error

	CreateSubscription(ctx context.Context, params SubscriptionParams) (*Subscription, error)
	ChangeSubscriptionPlan(ctx context.Context, id string, params PlanChangeParams) (*Subscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error
	CancelSubscription(ctx context.Context, id string) error

	// GetInvoice returns the invoice with its payment intent populated.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	PayInvoice(ctx context.Context, id string) error
	ListPaidInvoices(ctx context.Context, customerID string, limit int) ([]Invoice, error)

	// GetCoupon returns ErrCouponNotFound (wrapped) when the code does not exist.
	GetCoupon(ctx context.Context, code string) (*Coupon, error)
	// CreateSetupIntent returns the client secret of a new setup intent.
	CreateSetupIntent(ctx context.Context) (string, error)
}

// VATVerifier checks a VAT number with the issuing authority.
// Implementations fail closed.
type VATVerifier interface {
	Verify(ctx context.Context, country, number string) bool
}

// CustomerDetails is the caller-supplied customer identity and billing address.
type CustomerDetails struct {
	Name     string
	Email    string
	Country  string
	Postcode string
}

// CustomerParams is the projected customer state written on create and update.
type CustomerParams struct {
	CustomerDetails
	TaxExempt tax.Exemption
}

// SubscriptionParams describes a new subscription. Empty Coupon and TaxRate are omitted;
// TrialDays of zero creates it without a trial.
type SubscriptionParams struct {
	CustomerID string
	Plan       string
	Coupon     string
	TaxRate    string
	TrialDays  int
}

// PlanChangeParams swaps the plan on an existing subscription item and restarts the
// billing cycle immediately.
type PlanChangeParams struct {
	ItemID  string
	Plan    string
	Coupon  string
	TaxRate string
}
