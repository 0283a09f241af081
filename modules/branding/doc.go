// Package branding serves the organization name shown on tenant login pages.
//
// The subdomain is taken from the HostContext placed by tenant.Middleware, or
// derived from the Host header when the middleware is not installed. Unknown
// organizations and backend failures both render the configured fallback
// name, so the login page never breaks on a lookup problem.
package branding
