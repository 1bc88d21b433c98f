package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/billingkit/pkg/logger"
)

var (
	ErrServerStart    = errors.New("failed to start checkout server")
	ErrServerShutdown = errors.New("failed to shut down checkout server gracefully")
)

// ServerConfig configures Serve.
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Serve listens on cfg.Addr and serves handler until ctx is done, then shuts down
// gracefully. In-flight checkout requests get ShutdownTimeout to finish.
func Serve(ctx context.Context, cfg ServerConfig, handler http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.Join(ErrServerStart, err)
	}
	return serve(ctx, cfg, ln, handler, log)
}

func serve(ctx context.Context, cfg ServerConfig, ln net.Listener, handler http.Handler, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.InfoContext(ctx, "checkout server started", logger.Component("checkout"), slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrServerStart, err)
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(ErrServerShutdown, err)
	}
	<-errCh
	log.InfoContext(ctx, "checkout server stopped", logger.Component("checkout"))

	return nil
}

// Healthz reports liveness, or readiness when checks are given.
func Healthz(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error(), nil)
				return
			}
		}
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
