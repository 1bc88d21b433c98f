// Package logger builds *slog.Logger instances for billing components and provides
// attribute helpers so every component names its keys the same way.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "checkout"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "subscription created",
//		logger.CustomerID(cust.ID),
//		logger.SubscriptionID(sub.ID),
//	)
//
// Components accept a logger through their options and default to a discard handler,
// so nothing is written unless the application wires a logger in.
package logger
