package logger

import "log/slog"

// Error records err under "error". Nil errors produce an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records a step name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// CustomerID records the processor customer id under "customer_id".
func CustomerID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("customer_id", id)
}

// SubscriptionID records the processor subscription id under "subscription_id".
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

// InvoiceID records the processor invoice id under "invoice_id".
func InvoiceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("invoice_id", id)
}

// Status records a processor status under "status".
func Status(s string) slog.Attr {
	return slog.String("status", s)
}

// Plan records a plan or price id under "plan".
func Plan(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("plan", id)
}
