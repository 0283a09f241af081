// Package csrf issues and verifies anti-forgery tokens.
//
// A token is 32 random bytes, hex encoded, bound to one identity: a user
// session ("user:<id>"), a super-admin session ("super_admin:<id>") or an
// anonymous client ("anon:<id>" from a signed cookie). A Store keeps at most
// one live token per binding, so repeated issuance within the lifetime
// returns the same value.
//
// Handler exposes the issuance endpoints:
//
//	r.Get("/api/csrf-token", h.Public())
//	r.Get("/api/auth/csrf", h.Public())
//	r.Get("/api/admin/csrf", h.Admin())
//
// and Verify, a middleware that requires a matching X-CSRF-Token header on
// every request whose method is not GET, HEAD, OPTIONS or TRACE.
package csrf
