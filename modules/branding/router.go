package branding

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/fieldhub/handler"
	"github.com/dmitrymomot/fieldhub/pkg/tenant"
)

// NameLookup resolves an organization display name. tenant.Directory
// implements it.
type NameLookup interface {
	LookupOrganizationName(ctx context.Context, subdomain string) tenant.Lookup
}

// RouterOptions configures the branding module.
type RouterOptions struct {
	Directory NameLookup
	// FallbackName is shown when the organization is unknown or the lookup
	// failed. Defaults to tenant.DefaultOrganizationName.
	FallbackName string
}

// Response is the login-page branding payload. Subdomain is null when the
// host carries none.
type Response struct {
	Subdomain        *string `json:"subdomain"`
	OrganizationName string  `json:"organization_name"`
}

// Router mounts GET /branding; the app mounts it under /api/tenant. It never
// fails: missing tenants and lookup errors both render the fallback name.
func Router(opts RouterOptions) chi.Router {
	fallback := opts.FallbackName
	if fallback == "" {
		fallback = tenant.DefaultOrganizationName
	}

	r := chi.NewRouter()
	r.Get("/branding", handler.Wrap(
		func(ctx handler.Context, _ handler.NoRequest) handler.Response {
			return handler.JSON(http.StatusOK, resolve(ctx, opts.Directory, fallback))
		},
		handler.WithDecorators(handler.NoStore[handler.Context, handler.NoRequest]()),
	))
	return r
}

func resolve(ctx handler.Context, dir NameLookup, fallback string) Response {
	hc, ok := tenant.FromContext(ctx)
	if !ok {
		hc = tenant.NewHostContext(ctx.Request().Host)
	}
	if !hc.HasSubdomain || dir == nil {
		return Response{OrganizationName: fallback}
	}

	sub := hc.Subdomain
	return Response{
		Subdomain:        &sub,
		OrganizationName: dir.LookupOrganizationName(ctx, sub).NameOr(fallback),
	}
}
