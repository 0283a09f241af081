// Package metrics exposes Prometheus counters for CSRF issuance and
// rejection, tenant lookups, rate limiting and HTTP traffic. Metrics
// implements the observer interfaces of the csrf, tenant and ratelimiter
// packages.
package metrics
