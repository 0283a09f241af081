package app

import (
	"log/slog"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/fieldhub/modules/branding"
	"github.com/dmitrymomot/fieldhub/modules/security"
	"github.com/dmitrymomot/fieldhub/pkg/clientip"
	"github.com/dmitrymomot/fieldhub/pkg/csrf"
	"github.com/dmitrymomot/fieldhub/pkg/httpserver"
	"github.com/dmitrymomot/fieldhub/pkg/metrics"
	"github.com/dmitrymomot/fieldhub/pkg/ratelimiter"
	"github.com/dmitrymomot/fieldhub/pkg/requestid"
	"github.com/dmitrymomot/fieldhub/pkg/tenant"
	"github.com/dmitrymomot/fieldhub/svc/auth"
)

type routerDeps struct {
	log                *slog.Logger
	clock              clock.Clock
	metrics            *metrics.Metrics
	clientIP           *clientip.Resolver
	limiter            ratelimiter.Limiter
	csrf               *csrf.Handler
	sessions           *auth.Verifier
	directory          *tenant.Directory
	fallbackName       string
	trustForwardedHost bool
	checks             map[string]httpserver.Check
}

// newRouter lays out the public surface:
//
//	GET /healthz, /readyz, /metrics   operational, no tenant or session
//	/api/...                          tenant and session aware, CSRF verified
//	/api/csrf-token, /api/auth/csrf,
//	/api/admin/csrf                   additionally rate limited per client
func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, d.clientIP.Middleware, d.metrics.Middleware, middleware.Recoverer)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(d.log, d.checks))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	var tenantOpts []tenant.MiddlewareOption
	if d.trustForwardedHost {
		tenantOpts = append(tenantOpts, tenant.WithTrustForwardedHost())
	}

	r.Group(func(r chi.Router) {
		r.Use(
			tenant.Middleware(tenantOpts...),
			auth.Middleware(d.sessions),
			d.csrf.Verify,
		)
		r.Mount("/api", security.Router(security.RouterOptions{
			CSRF:        d.csrf,
			Middlewares: d.issuanceMiddlewares(),
		}))
		r.Mount("/api/tenant", branding.Router(branding.RouterOptions{
			Directory:    d.directory,
			FallbackName: d.fallbackName,
		}))
	})

	return r
}

func (d routerDeps) issuanceMiddlewares() []func(http.Handler) http.Handler {
	if d.limiter == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{
		ratelimiter.Middleware(d.limiter, ratelimiter.ByClientIP(d.clientIP),
			ratelimiter.WithScope("csrf_issuance"),
			ratelimiter.WithLogger(d.log),
			ratelimiter.WithObserver(d.metrics),
			ratelimiter.WithMiddlewareClock(d.clock),
		),
	}
}
