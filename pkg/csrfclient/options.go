package csrfclient

import (
	"net/http"

	"github.com/benbjohnson/clock"
)

type Option func(*Client)

// WithHTTPClient sets the client used to call the issuance endpoint. Its
// cookie jar should hold the session cookies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithEndpoint overrides the issuance path.
func WithEndpoint(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.endpoint = path
		}
	}
}

// WithAdminEndpoint targets the super-admin issuance endpoint.
func WithAdminEndpoint() Option {
	return WithEndpoint(AdminEndpoint)
}

func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithSingleFlight collapses concurrent cache misses onto one request.
// Without it each concurrent miss fetches its own token, which is harmless
// because issuance is idempotent per session.
func WithSingleFlight() Option {
	return func(c *Client) { c.coalesce = true }
}
