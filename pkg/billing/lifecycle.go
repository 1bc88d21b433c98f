package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/billingkit/pkg/logger"
)

// receiptLimit caps how many paid invoices Receipts returns.
const receiptLimit = 10

// GetSubscription retrieves the customer and parses its subscription.
// An empty customerID parses as no customer.
func (m *Manager) GetSubscription(ctx context.Context, customerID string) (*ParsedSubscription, error) {
	if customerID == "" {
		return m.ParseSubscription(ctx, nil)
	}

	c, err := m.processor.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("retrieve customer: %w", err)
	}

	return m.ParseSubscription(ctx, c)
}

// CancelSubscription cancels the customer's subscription at the end of the current
// period, or immediately when atPeriodEnd is false.
func (m *Manager) CancelSubscription(ctx context.Context, customerID string, atPeriodEnd bool) error {
	subID, err := m.subscriptionWithPlan(ctx, customerID)
	if err != nil || subID == "" {
		return err
	}

	if atPeriodEnd {
		err = m.processor.SetCancelAtPeriodEnd(ctx, subID, true)
	} else {
		err = m.processor.CancelSubscription(ctx, subID)
	}
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	m.log.InfoContext(ctx, "subscription cancelled",
		logger.Component("billing"),
		logger.CustomerID(customerID),
		logger.SubscriptionID(subID),
	)
	return nil
}

// ReactivateSubscription clears a pending cancellation.
func (m *Manager) ReactivateSubscription(ctx context.Context, customerID string) error {
	subID, err := m.subscriptionWithPlan(ctx, customerID)
	if err != nil || subID == "" {
		return err
	}

	if err := m.processor.SetCancelAtPeriodEnd(ctx, subID, false); err != nil {
		return fmt.Errorf("reactivate subscription: %w", err)
	}

	m.log.InfoContext(ctx, "subscription reactivated",
		logger.Component("billing"),
		logger.CustomerID(customerID),
		logger.SubscriptionID(subID),
	)
	return nil
}

// DeleteSubscription cancels the customer's subscription immediately.
func (m *Manager) DeleteSubscription(ctx context.Context, customerID string) error {
	return m.CancelSubscription(ctx, customerID, false)
}

func (m *Manager) DeleteCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return ErrCustomerNotFound
	}
	if err := m.processor.DeleteCustomer(ctx, customerID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	m.log.InfoContext(ctx, "customer deleted", logger.Component("billing"), logger.CustomerID(customerID))
	return nil
}

// subscriptionWithPlan returns the id of the customer's parsed subscription, or "" when
// the view carries no plan.
func (m *Manager) subscriptionWithPlan(ctx context.Context, customerID string) (string, error) {
	view, err := m.GetSubscription(ctx, customerID)
	if err != nil {
		return "", err
	}
	if view.Plan == nil {
		m.log.DebugContext(ctx, "no subscription to change",
			logger.Component("billing"),
			logger.CustomerID(customerID),
		)
		return "", nil
	}
	return view.ID, nil
}

// Receipt is a paid invoice as listed to the customer.
type Receipt struct {
	Date     string `json:"date"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
	Display  string `json:"display"`
	URL      string `json:"url,omitempty"`
}

// Receipts returns the customer's most recent paid invoices.
func (m *Manager) Receipts(ctx context.Context, customerID string) ([]Receipt, error) {
	if customerID == "" {
		return []Receipt{}, nil
	}

	invoices, err := m.processor.ListPaidInvoices(ctx, customerID, receiptLimit)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	receipts := make([]Receipt, 0, len(invoices))
	for _, inv := range invoices {
		receipts = append(receipts, Receipt{
			Date:     FormatUnixDate(inv.Created),
			Currency: strings.ToUpper(inv.Currency),
			Amount:   inv.Total,
			Display:  FormatAmount(inv.Total, inv.Currency),
			URL:      inv.PDFURL,
		})
	}
	return receipts, nil
}

// ValidateCoupon reports whether code names an existing, currently valid coupon.
func (m *Manager) ValidateCoupon(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	coupon, err := m.processor.GetCoupon(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrCouponNotFound) {
			m.log.WarnContext(ctx, "coupon lookup failed", logger.Component("billing"), logger.Error(err))
		}
		return false
	}
	return coupon.Valid
}

// ValidateVATNumber verifies q, a VAT number starting with its two-letter country code.
func (m *Manager) ValidateVATNumber(ctx context.Context, q string) bool {
	q = strings.ToUpper(strings.TrimSpace(q))
	if len(q) < 3 {
		return false
	}
	return m.vat.Verify(ctx, q[:2], q[2:])
}

// ClientSecret creates a setup intent and returns its client secret.
func (m *Manager) ClientSecret(ctx context.Context) (string, error) {
	secret, err := m.processor.CreateSetupIntent(ctx)
	if err != nil {
		return "", fmt.Errorf("create setup intent: %w", err)
	}
	return secret, nil
}
