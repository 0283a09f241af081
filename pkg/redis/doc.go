// Package redis opens a go-redis client with bounded startup retries. The
// CSRF token store uses it when CSRF_STORE=redis.
package redis
