package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/fieldhub/handler"
	"github.com/dmitrymomot/fieldhub/pkg/clientip"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

// maxKeyLength bounds storage keys; longer composites are hashed.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the address stored by clientip middleware, resolving it
// with res when the middleware did not run.
func ByClientIP(res *clientip.Resolver) KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.FromContext(r.Context()); ip != "" {
			return ip
		}
		return res.IP(r)
	}
}

// Composite joins the non-empty keys of several functions.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// Observer counts rejected requests. metrics.Metrics implements it.
type Observer interface {
	ObserveRateLimited(scope string)
}

type noopObserver struct{}

func (noopObserver) ObserveRateLimited(string) {}

type middlewareConfig struct {
	scope    string
	log      *slog.Logger
	observer Observer
	clock    clock.Clock
}

type MiddlewareOption func(*middlewareConfig)

// WithScope names the limited surface in logs, metrics and the storage key.
func WithScope(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.scope = name
		}
	}
}

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o Observer) MiddlewareOption {
	return func(c *middlewareConfig) {
		if o != nil {
			c.observer = o
		}
	}
}

func WithMiddlewareClock(clk clock.Clock) MiddlewareOption {
	return func(c *middlewareConfig) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// Middleware enforces l per key. A failing store lets the request through
// and logs the error: limiting must not take issuance down with it.
func Middleware(l Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		scope:    "default",
		log:      logger.Noop(),
		observer: noopObserver{},
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.AllowN(r.Context(), cfg.scope+":"+key, 1)
			if err != nil {
				cfg.log.WarnContext(r.Context(), "rate limit check failed, allowing request",
					logger.Component("ratelimiter"),
					slog.String("scope", cfg.scope),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				cfg.observer.ObserveRateLimited(cfg.scope)
				if secs := int(res.RetryAfter(cfg.clock.Now()).Seconds()); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				_ = handler.Error(http.StatusTooManyRequests, MessageTooManyRequests).Render(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
