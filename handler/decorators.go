package handler

// NoStore marks the response as uncacheable. Token responses must never be
// stored by browsers or intermediaries.
func NoStore[C Context, R any]() Decorator[C, R] {
	return func(next HandlerFunc[C, R]) HandlerFunc[C, R] {
		return func(ctx C, req R) Response {
			h := ctx.ResponseWriter().Header()
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			return next(ctx, req)
		}
	}
}
