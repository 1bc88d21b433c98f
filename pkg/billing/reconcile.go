package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/tax"
)

// CreateOrUpdateCustomer updates the customer with existingID, or creates a new one when
// existingID is empty or the processor no longer knows it.
func (m *Manager) CreateOrUpdateCustomer(ctx context.Context, existingID string, details CustomerDetails, decision tax.Decision) (*Customer, error) {
	params := CustomerParams{CustomerDetails: details, TaxExempt: decision.Exempt}

	if existingID != "" {
		customer, err := m.updateCustomer(ctx, existingID, params)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
		m.log.WarnContext(ctx, "stored customer is gone, creating a new one",
			logger.Component("billing"),
			logger.CustomerID(existingID),
			logger.Error(errors.Join(ErrCustomerLookupFailed, err)),
		)
	}

	customer, err := m.processor.CreateCustomer(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	m.log.DebugContext(ctx, "customer created", logger.Component("billing"), logger.Event("customer.create"), logger.CustomerID(customer.ID))

	return customer, nil
}

func (m *Manager) updateCustomer(ctx context.Context, id string, params CustomerParams) (*Customer, error) {
	customer, err := m.processor.GetCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieve customer: %w", err)
	}
	if err := m.processor.UpdateCustomer(ctx, id, params); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	m.log.DebugContext(ctx, "customer updated", logger.Component("billing"), logger.Event("customer.update"), logger.CustomerID(id))

	return customer, nil
}

// ReconcileTaxID makes desired the customer's only EU VAT record, leaving records of other
// types alone. A nil desired removes every tax ID record regardless of type.
func (m *Manager) ReconcileTaxID(ctx context.Context, customerID string, current []TaxIDRecord, desired *tax.ID) error {
	present := false
	for _, rec := range current {
		if desired != nil && rec.TaxID() == *desired {
			present = true
			continue
		}
		if desired != nil && rec.Type != tax.TypeEUVAT {
			continue
		}
		if err := m.processor.DeleteTaxID(ctx, customerID, rec.ID); err != nil {
			return fmt.Errorf("delete tax id: %w", err)
		}
		m.log.DebugContext(ctx, "tax id removed", logger.Component("billing"), logger.Event("tax_id.delete"), logger.CustomerID(customerID))
	}

	if desired == nil || present {
		return nil
	}

	if err := m.processor.CreateTaxID(ctx, customerID, *desired); err != nil {
		return fmt.Errorf("create tax id: %w", err)
	}
	m.log.DebugContext(ctx, "tax id added", logger.Component("billing"), logger.Event("tax_id.create"), logger.CustomerID(customerID))

	return nil
}

// ReconcilePaymentMethod attaches newID, makes it the default and detaches oldID.
// Detach failures are logged and ignored.
func (m *Manager) ReconcilePaymentMethod(ctx context.Context, customerID, newID, oldID string) error {
	if newID == "" || newID == oldID {
		return nil
	}

	if err := m.processor.AttachPaymentMethod(ctx, newID, customerID); err != nil {
		return fmt.Errorf("attach payment method: %w", err)
	}
	if err := m.processor.SetDefaultPaymentMethod(ctx, customerID, newID); err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}
	m.log.DebugContext(ctx, "payment method replaced", logger.Component("billing"), logger.Event("payment_method.replace"), logger.CustomerID(customerID))

	if oldID == "" {
		return nil
	}
	if err := m.processor.DetachPaymentMethod(ctx, oldID); err != nil {
		m.log.WarnContext(ctx, "detach old payment method",
			logger.Component("billing"),
			logger.CustomerID(customerID),
			logger.Error(err),
		)
	}

	return nil
}

// PlanChange is the desired subscription state.
type PlanChange struct {
	Plan      string
	Coupon    string
	TaxRate   string
	TrialDays int
}

// RetryResult reports whether a pending invoice was retried. A failed retry does not fail
// the mutation; Err then wraps ErrPaymentRetryFailed.
type RetryResult struct {
	Retried   bool
	Succeeded bool
	Err       error
}

// ReconcilePlanAndInvoice changes the plan of the customer's first subscription, retries
// its pending invoice, or creates a subscription when there is none and a plan is given.
func (m *Manager) ReconcilePlanAndInvoice(ctx context.Context, customer *Customer, change PlanChange) (RetryResult, error) {
	if customer == nil {
		return RetryResult{}, ErrCustomerNotFound
	}

	if len(customer.Subscriptions) == 0 {
		if change.Plan == "" {
			return RetryResult{}, nil
		}
		return RetryResult{}, m.createSubscription(ctx, customer.ID, change)
	}

	sub := customer.Subscriptions[0]
	if change.Plan != "" && sub.PlanID() != change.Plan {
		if _, err := m.processor.ChangeSubscriptionPlan(ctx, sub.ID, PlanChangeParams{
			ItemID:  sub.ItemID,
			Plan:    change.Plan,
			Coupon:  change.Coupon,
			TaxRate: change.TaxRate,
		}); err != nil {
			return RetryResult{}, fmt.Errorf("change subscription plan: %w", err)
		}
		m.log.DebugContext(ctx, "subscription plan changed",
			logger.Component("billing"),
			logger.Event("subscription.change_plan"),
			logger.SubscriptionID(sub.ID),
			logger.Plan(change.Plan),
		)
	}

	switch sub.Status {
	case StatusIncomplete:
		if sub.LatestInvoiceID == "" {
			return RetryResult{}, nil
		}
		inv, err := m.processor.GetInvoice(ctx, sub.LatestInvoiceID)
		if err != nil {
			return RetryResult{}, fmt.Errorf("retrieve invoice: %w", err)
		}
		if inv.PaymentIntent == nil {
			return RetryResult{}, nil
		}
		switch inv.PaymentIntent.Status {
		case IntentRequiresPaymentMethod, IntentRequiresConfirmation:
			return m.retryInvoice(ctx, sub.ID, inv.ID), nil
		}
	case StatusPastDue:
		if sub.LatestInvoiceID != "" {
			return m.retryInvoice(ctx, sub.ID, sub.LatestInvoiceID), nil
		}
	}

	return RetryResult{}, nil
}

func (m *Manager) createSubscription(ctx context.Context, customerID string, change PlanChange) error {
	sub, err := m.processor.CreateSubscription(ctx, SubscriptionParams{
		CustomerID: customerID,
		Plan:       change.Plan,
		Coupon:     change.Coupon,
		TaxRate:    change.TaxRate,
		TrialDays:  change.TrialDays,
	})
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	attrs := []any{
		logger.Component("billing"),
		logger.Event("subscription.create"),
		logger.CustomerID(customerID),
		logger.SubscriptionID(sub.ID),
		logger.Status(string(sub.Status)),
	}
	if sub.Status == StatusIncomplete {
		m.log.WarnContext(ctx, "subscription created with incomplete payment", attrs...)
	} else {
		m.log.DebugContext(ctx, "subscription created", attrs...)
	}

	return nil
}

func (m *Manager) retryInvoice(ctx context.Context, subscriptionID, invoiceID string) RetryResult {
	if err := m.processor.PayInvoice(ctx, invoiceID); err != nil {
		m.log.WarnContext(ctx, "invoice payment retry failed",
			logger.Component("billing"),
			logger.SubscriptionID(subscriptionID),
			logger.InvoiceID(invoiceID),
			logger.Error(err),
		)
		return RetryResult{Retried: true, Err: errors.Join(ErrPaymentRetryFailed, err)}
	}

	m.log.DebugContext(ctx, "invoice paid on retry",
		logger.Component("billing"),
		logger.Event("invoice.retry"),
		logger.SubscriptionID(subscriptionID),
		logger.InvoiceID(invoiceID),
	)
	return RetryResult{Retried: true, Succeeded: true}
}
