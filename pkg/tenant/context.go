package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type hostContextKey struct{}

func WithHostContext(ctx context.Context, hc HostContext) context.Context {
	return context.WithValue(ctx, hostContextKey{}, hc)
}

// FromContext returns the HostContext set by Middleware.
func FromContext(ctx context.Context) (HostContext, bool) {
	hc, ok := ctx.Value(hostContextKey{}).(HostContext)
	return hc, ok
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	trustForwardedHost bool
}

// WithTrustForwardedHost reads X-Forwarded-Host before Host. Enable it only
// behind a proxy that overwrites the header.
func WithTrustForwardedHost() MiddlewareOption {
	return func(c *middlewareConfig) { c.trustForwardedHost = true }
}

// Middleware stores the request's HostContext in its context.
func Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if cfg.trustForwardedHost {
				if fwd := forwardedHost(r); fwd != "" {
					host = fwd
				}
			}
			if host == "" {
				host = r.URL.Host
			}
			next.ServeHTTP(w, r.WithContext(WithHostContext(r.Context(), NewHostContext(host))))
		})
	}
}

// forwardedHost returns the first (client-facing) entry of X-Forwarded-Host.
func forwardedHost(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Host"), ",")
	return strings.TrimSpace(first)
}

// LoggerExtractor adds the tenant subdomain to log records.
func LoggerExtractor() func(context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if hc, ok := FromContext(ctx); ok && hc.HasSubdomain {
			return slog.String("subdomain", hc.Subdomain), true
		}
		return slog.Attr{}, false
	}
}
