// Package handler provides typed HTTP handlers.
//
// A HandlerFunc receives a Context and a bound request value and returns a
// Response. Wrap turns it into an http.HandlerFunc, running binders and
// decorators and routing failures to an ErrorHandler:
//
//	func branding(ctx handler.Context, _ handler.NoRequest) handler.Response {
//		return handler.JSON(http.StatusOK, body)
//	}
//
//	r.Get("/api/tenant/branding", handler.Wrap(branding,
//		handler.WithDecorators(handler.NoStore[handler.Context, handler.NoRequest]()),
//	))
//
// Responses are plain JSON objects. Errors use the shape {"error": "..."}.
package handler
