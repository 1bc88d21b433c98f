package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ContextExtractor pulls an attribute out of a context at log time.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures logger creation.
type Option func(*config)

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets output format. Panics for unknown formats so misconfiguration fails at startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextValue adds the context value stored under key as attribute name.
func WithContextValue(name string, key any) Option {
	return func(c *config) {
		if name == "" || key == nil {
			return
		}
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			if v := ctx.Value(key); v != nil {
				return slog.Any(name, v), true
			}
			return slog.Attr{}, false
		})
	}
}

// WithEnvironment applies presets: JSON at info level for production and staging,
// text at debug level otherwise.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		switch env {
		case "production", "prod", "staging", "stage":
			c.level = slog.LevelInfo
			c.format = FormatJSON
		default:
			c.level = slog.LevelDebug
			c.format = FormatText
		}
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		if env != "" {
			c.attrs = append(c.attrs, slog.String("env", env))
		}
	}
}

// New creates a logger. Defaults to JSON on stdout at info level.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var h slog.Handler
	if cfg.format == FormatText {
		h = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		h = slog.NewJSONHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}
	if len(cfg.extractors) > 0 {
		h = &contextHandler{next: h, extractors: cfg.extractors}
	}

	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// contextHandler injects extractor attributes on every Handle call.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
