package security

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Issuer is the CSRF issuance surface mounted by the module. csrf.Handler
// implements it.
type Issuer interface {
	Public() http.HandlerFunc
	Admin() http.HandlerFunc
}

// RouterOptions configures the security module.
type RouterOptions struct {
	CSRF Issuer
	// Extra middlewares applied to every route of the module, e.g. metrics.
	Middlewares []func(http.Handler) http.Handler
}

// Router mounts the CSRF issuance endpoints relative to /api:
//
//	GET /csrf-token        end users and anonymous clients
//	GET /auth/csrf         alias used by the login pages
//	GET /admin/csrf        super-admin session required
//
// Example:
//
//	r.Mount("/api", security.Router(security.RouterOptions{CSRF: csrfHandler}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(opts.Middlewares...)

	if opts.CSRF == nil {
		return r
	}

	public := opts.CSRF.Public()
	r.Get("/csrf-token", public)
	r.Get("/auth/csrf", public)
	r.Get("/admin/csrf", opts.CSRF.Admin())

	return r
}
