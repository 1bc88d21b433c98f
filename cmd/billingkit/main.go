// Command billingkit serves the checkout endpoints over a Stripe account.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/checkout"
	"github.com/dmitrymomot/billingkit/pkg/config"
	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/vat"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"billingkit"`
}

func main() {
	var (
		app       appConfig
		billCfg   billing.Config
		stripeCfg billing.StripeConfig
		vatCfg    vat.Config
		serverCfg checkout.ServerConfig
	)
	config.MustLoad(&app)
	config.MustLoad(&billCfg)
	config.MustLoad(&stripeCfg)
	config.MustLoad(&vatCfg)
	config.MustLoad(&serverCfg)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, billCfg, stripeCfg, vatCfg, serverCfg); err != nil {
		log.Error("billingkit stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, billCfg billing.Config, stripeCfg billing.StripeConfig, vatCfg vat.Config, serverCfg checkout.ServerConfig) error {
	proc, err := billing.NewStripeProcessor(stripeCfg)
	if err != nil {
		return err
	}

	mgr, err := billing.NewManager(proc,
		billing.WithConfig(billCfg),
		billing.WithLogger(log),
		billing.WithVATVerifier(vat.New(vatCfg, vat.WithLogger(log))),
	)
	if err != nil {
		return err
	}

	h := checkout.New(mgr,
		checkout.WithLogger(log),
		checkout.WithDefaultPlan(billCfg.Plan),
		checkout.WithPublishableKey(stripeCfg.PublishableKey),
	)

	return checkout.Serve(ctx, serverCfg, h, log)
}
