package billing

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/tax"
)

const (
	msgRequiresAction        = "Invalid payment method (requires action)"
	msgRequiresPaymentMethod = "Invalid payment method"
	msgRequiresConfirmation  = "Waiting for a new attempt"
	msgPaymentOverdue        = "Past due or incomplete payment"
)

// ParsedSubscription is the display view of a customer's subscription.
type ParsedSubscription struct {
	ID        string          `json:"id,omitempty"`
	Valid     bool            `json:"valid"`
	Cancelled bool            `json:"cancelled"`
	PeriodEnd int64           `json:"period_end,omitempty"`
	Status    string          `json:"status,omitempty"`
	Card      *ParsedCard     `json:"card"`
	Plan      *Plan           `json:"plan"`
	Customer  *ParsedCustomer `json:"customer,omitempty"`
	// RequiresAction is the payment intent client secret when the customer has to
	// authenticate the payment again.
	RequiresAction string `json:"requires_action,omitempty"`
}

// ParsedCustomer is the customer data the checkout form is prefilled with.
type ParsedCustomer struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Country  string `json:"country,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	VAT      string `json:"vat,omitempty"`
}

// ParseSubscription builds the display view for the customer's first subscription.
// Only incomplete and past-due subscriptions need a processor call, to read the latest
// invoice's payment state.
func (m *Manager) ParseSubscription(ctx context.Context, c *Customer) (*ParsedSubscription, error) {
	if c == nil {
		return &ParsedSubscription{}, nil
	}

	view := &ParsedSubscription{Customer: parseCustomer(c)}
	if len(c.Subscriptions) == 0 {
		return view, nil
	}

	sub := c.Subscriptions[0]
	view.ID = sub.ID
	view.Cancelled = sub.CancelAtPeriodEnd
	view.PeriodEnd = sub.CurrentPeriodEnd
	view.Card = parseCard(pickCard(c, sub), m.now())
	if sub.Plan != nil {
		plan := *sub.Plan
		view.Plan = &plan
	}

	switch sub.Status {
	case StatusActive:
		view.Valid = true
		view.Status = renewalStatus(sub)
	case StatusTrialing:
		view.Valid = true
		if sub.CancelAtPeriodEnd {
			view.Status = renewalStatus(sub)
		} else {
			view.Status = "Trial ends " + FormatUnixDate(sub.TrialEnd)
		}
	case StatusIncomplete, StatusPastDue:
		if sub.CancelAtPeriodEnd {
			view.Status = renewalStatus(sub)
			break
		}
		status, secret, err := m.paymentState(ctx, sub.LatestInvoiceID)
		if err != nil {
			return nil, err
		}
		view.Status = status
		view.RequiresAction = secret
	case StatusIncompleteExpired, StatusCanceled, StatusUnpaid:
		return &ParsedSubscription{}, nil
	default:
		m.log.WarnContext(ctx, "skipping subscription",
			logger.Component("billing"),
			logger.SubscriptionID(sub.ID),
			logger.Status(string(sub.Status)),
			logger.Error(ErrUnrecognizedSubscriptionStatus),
		)
		return &ParsedSubscription{}, nil
	}

	return view, nil
}

func renewalStatus(sub Subscription) string {
	if sub.CancelAtPeriodEnd {
		return "Cancels on " + FormatUnixDate(sub.CurrentPeriodEnd)
	}
	return "Renews on " + FormatUnixDate(sub.CurrentPeriodEnd)
}

func (m *Manager) paymentState(ctx context.Context, invoiceID string) (status, secret string, err error) {
	if invoiceID == "" {
		return msgPaymentOverdue, "", nil
	}

	inv, err := m.processor.GetInvoice(ctx, invoiceID)
	if err != nil {
		return "", "", fmt.Errorf("retrieve invoice: %w", err)
	}

	pi := inv.PaymentIntent
	if pi == nil {
		return msgPaymentOverdue, "", nil
	}
	if pi.LastPaymentError != "" {
		return pi.LastPaymentError, "", nil
	}

	switch pi.Status {
	case IntentRequiresAction:
		return msgRequiresAction, pi.ClientSecret, nil
	case IntentRequiresPaymentMethod:
		return msgRequiresPaymentMethod, "", nil
	case IntentRequiresConfirmation:
		return msgRequiresConfirmation, "", nil
	default:
		return msgPaymentOverdue, "", nil
	}
}

// pickCard prefers the subscription's payment method, then the customer's default,
// then the oldest legacy source.
func pickCard(c *Customer, sub Subscription) *Card {
	if pm := sub.DefaultPaymentMethod; pm != nil && pm.Card != nil {
		return pm.Card
	}
	if pm := c.DefaultPaymentMethod; pm != nil && pm.Card != nil {
		return pm.Card
	}
	if len(c.Sources) > 0 {
		return &c.Sources[0]
	}
	return nil
}

func parseCustomer(c *Customer) *ParsedCustomer {
	pc := &ParsedCustomer{
		ID:       c.ID,
		Email:    c.Email,
		Name:     c.Name,
		Country:  c.Country,
		Postcode: c.Postcode,
	}
	for _, rec := range c.TaxIDs {
		if rec.Type == tax.TypeEUVAT {
			pc.VAT = rec.Value
			break
		}
	}
	return pc
}
