// Package ratelimiter limits how often a client may call a route, using a
// token bucket per key.
//
// fieldhub puts it in front of the CSRF issuance endpoints, keyed by client
// address, because every anonymous issuance creates server-side state.
//
//	store := ratelimiter.NewMemoryStore(cfg.MaxKeys)
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP(resolver),
//		ratelimiter.WithScope("csrf_issuance"),
//	))
//
// Responses carry X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset. Denied requests get 429 with a JSON error body and
// Retry-After. When the store fails the request is allowed and the failure is
// logged.
//
// MemoryStore is exact per process. RedisStore is shared between replicas and
// approximates the bucket with a fixed window.
package ratelimiter
