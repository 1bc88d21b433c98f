// Package billing manages customers and recurring subscriptions on a card payment
// processor and renders subscription state for display.
//
// The package has two halves. The mutation path (Manager.Manage) takes checkout input and
// brings the processor in line with it. The read path (Manager.ParseSubscription and
// Manager.GetSubscription) turns processor state into a ParsedSubscription that a billing
// page can show without further processing.
//
// # Architecture
//
//   - Processor: the processor capability the Manager needs. StripeProcessor implements
//     it over the Stripe API.
//   - VATVerifier: external EU VAT number check, implemented by vat.Client.
//   - Manager: orchestrates Processor calls. It holds no state between calls.
//   - tax.Classify: decides the exemption, tax ID and tax rate for every mutation.
//
// # Mutation Sequence
//
// Manage runs these steps strictly in order and stops at the first failure:
//
//  1. Coupon and VAT pre-validation. A failure here touches nothing.
//  2. Tax classification from country, VAT number and Config.TaxOrigin.
//  3. Customer create or update. A stored customer id the processor no longer knows
//     falls through to creation.
//  4. Tax ID reconciliation. The customer ends with at most one EU VAT record.
//  5. Payment method replacement (attach, set default, detach old).
//  6. Plan change, pending invoice retry, or subscription creation.
//
// Completed steps are not rolled back. The caller retries the whole call; every step is
// idempotent with respect to the desired end state.
//
// A failed invoice retry does not fail Manage. It is reported in ManageResult.Retry:
//
//	res, err := mgr.Manage(ctx, customerID, billing.ManageOptions{
//		Email:         "jane@example.com",
//		Country:       "SE",
//		VAT:           "SE556677889901",
//		PaymentMethod: "pm_123",
//		Plan:          "price_monthly",
//	})
//	if err != nil {
//		return err
//	}
//	if res.Retry.Err != nil {
//		// show "payment failed" and let the customer pick another card
//	}
//
// # Configuration
//
// Config and StripeConfig carry env tags for pkg/config:
//
//	var cfg billing.Config
//	config.MustLoad(&cfg)
//
//	var sc billing.StripeConfig
//	config.MustLoad(&sc)
//
//	proc, err := billing.NewStripeProcessor(sc)
//	mgr, err := billing.NewManager(proc, billing.WithConfig(cfg), billing.WithLogger(log))
//
// # Errors
//
// Sentinel errors are matched with errors.Is. Card declines surface as *PaymentError:
//
//	var pe *billing.PaymentError
//	if errors.As(err, &pe) {
//		// pe.Message is safe to show to the customer
//	}
package billing
