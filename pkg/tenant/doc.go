// Package tenant maps an incoming Host header to an organization.
//
// ResolveSubdomain extracts the tenant label from a hostname:
// "acme.localhost:3000" and "acme.example.com" both yield "acme", while
// "localhost" and "example.com" yield none. Middleware stores the parsed
// HostContext in the request context.
//
// Directory.LookupOrganizationName turns a subdomain into a display name for
// login branding. The result tells found, not found and failed apart; callers
// that only need a label use Lookup.NameOr with the configured fallback:
//
//	hc, _ := tenant.FromContext(r.Context())
//	name := dir.LookupOrganizationName(ctx, hc.Subdomain).NameOr(cfg.FallbackName())
//
// Stores: PostgresStore for production, MemoryStore for tests and demos, and
// CachedStore as a TTL cache in front of either.
package tenant
