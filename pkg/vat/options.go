package vat

import (
	"log/slog"
	"net/http"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used to reach VIES.
// Nil clients are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for verification failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithoutCache disables memoisation of answers.
func WithoutCache() Option {
	return func(c *Client) {
		c.cache = nil
	}
}
