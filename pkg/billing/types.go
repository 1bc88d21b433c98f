package billing

import "github.com/dmitrymomot/billingkit/pkg/tax"

// SubscriptionStatus is the processor's subscription lifecycle state.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusUnpaid            SubscriptionStatus = "unpaid"
)

// PaymentIntentStatus is the processor's payment-intent state.
type PaymentIntentStatus string

const (
	IntentRequiresAction        PaymentIntentStatus = "requires_action"
	IntentRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  PaymentIntentStatus = "requires_confirmation"
	IntentProcessing            PaymentIntentStatus = "processing"
	IntentSucceeded             PaymentIntentStatus = "succeeded"
	IntentCanceled              PaymentIntentStatus = "canceled"
)

// Customer is the subset of a processor customer this package reads and writes.
type Customer struct {
	ID                   string
	Email                string
	Name                 string
	Country              string
	Postcode             string
	TaxIDs               []TaxIDRecord
	DefaultPaymentMethod *PaymentMethod
	// Sources are legacy card sources, oldest first.
	Sources       []Card
	Subscriptions []Subscription
}

// TaxIDRecord is a tax ID stored on a customer.
type TaxIDRecord struct {
	ID    string
	Type  string
	Value string
}

// TaxID returns the record's type and value.
func (r TaxIDRecord) TaxID() tax.ID {
	return tax.ID{Type: r.Type, Value: r.Value}
}

// PaymentMethod is a stored payment method. Card is nil for non-card methods
// or when the processor did not expand the object.
type PaymentMethod struct {
	ID   string
	Card *Card
}

// Subscription is the subset of a processor subscription this package uses.
type Subscription struct {
	ID                   string
	Status               SubscriptionStatus
	CancelAtPeriodEnd    bool
	CurrentPeriodEnd     int64
	TrialEnd             int64
	ItemID               string
	Plan                 *Plan
	DefaultPaymentMethod *PaymentMethod
	LatestInvoiceID      string
}

// PlanID returns the id of the subscribed plan, or "".
func (s Subscription) PlanID() string {
	if s.Plan == nil {
		return ""
	}
	return s.Plan.ID
}

// Plan describes the price a subscription bills.
type Plan struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Interval string            `json:"interval"`
}

// Invoice is a processor invoice with its payment intent expanded when present.
type Invoice struct {
	ID            string
	Created       int64
	Currency      string
	Total         int64
	PDFURL        string
	PaymentIntent *PaymentIntent
}

// PaymentIntent is the payment attempt behind an invoice. ClientSecret lets the checkout
// form confirm a payment that requires customer action.
type PaymentIntent struct {
	ID               string
	Status           PaymentIntentStatus
	ClientSecret     string
	LastPaymentError string
}

// Coupon is a processor discount code. Valid is false once it expired or hit its redemption limit.
type Coupon struct {
	ID    string
	Valid bool
}
