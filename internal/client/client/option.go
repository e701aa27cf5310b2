package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/authclient/internal/logging"
)

type Option func(*HTTPClient)

// WithHTTPClient sets the underlying *http.Client. Any timeout policy lives
// there; HTTPClient sets none of its own.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// WithLogger sets the logger used for request diagnostics and refresh failures.
func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) {
		h.logger = l
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *HTTPClient) {
		h.now = now
	}
}

// WithExpiryThreshold sets the window used by AutoRefreshToken.
func WithExpiryThreshold(d time.Duration) Option {
	return func(h *HTTPClient) {
		h.threshold = d
	}
}
