// Package cache provides a generic in-process LRU with per-entry expiry.
//
// It backs the tenant organization cache and the in-memory CSRF token store.
// Time is read from a github.com/benbjohnson/clock Clock so expiry can be
// driven by a mock clock in tests.
package cache
