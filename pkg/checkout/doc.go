// Package checkout exposes the JSON endpoints a checkout or billing page talks to.
//
// Handler wraps a Service (normally *billing.Manager) in a chi router:
//
//	GET  /vat?q=IE6388047V          {"valid": true}      200, or 400 when invalid
//	GET  /coupon?q=WELCOME          {"valid": true}      200, or 400 when invalid
//	GET  /setup-intent              {"client_secret": "...", "publishable_key": "..."}
//	GET  /subscription              the parsed subscription view
//	POST /subscription              create or update customer and subscription
//	POST /subscription/cancel       cancel at period end
//	POST /subscription/reactivate   undo a pending cancellation
//	GET  /receipts                  recent paid invoices
//	GET  /healthz                   liveness
//
// Every response uses the same envelope:
//
//	{"data": ..., "error": {"code": "...", "message": "...", "details": {"field": ["..."]}}}
//
// The customer is taken from the "customer" query parameter unless WithCustomerResolver
// supplies one, usually from the session.
//
// A second POST /subscription for the same customer (or the same email, for new
// customers) while the first is still running is rejected with 409.
//
// Serve runs the handler with graceful shutdown:
//
//	h := checkout.New(mgr, checkout.WithLogger(log), checkout.WithDefaultPlan(cfg.Plan))
//	if err := checkout.Serve(ctx, serverCfg, h, log); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
package checkout
