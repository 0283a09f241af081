package auth

import (
	"context"
	"log/slog"
	"net/http"
)

type (
	sessionContextKey  struct{}
	sessionsContextKey struct{}
)

// Sessions is every session Middleware verified on a request. Either field
// may be nil.
type Sessions struct {
	User  *Session
	Admin *Session
}

// Primary is the session that identifies the caller: super-admin first.
func (ss Sessions) Primary() *Session {
	if ss.Admin != nil {
		return ss.Admin
	}
	return ss.User
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session placed by Middleware, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}

// WithSessions stores ss and its primary session in ctx.
func WithSessions(ctx context.Context, ss Sessions) context.Context {
	ctx = context.WithValue(ctx, sessionsContextKey{}, ss)
	if s := ss.Primary(); s != nil {
		ctx = WithSession(ctx, s)
	}
	return ctx
}

// SessionsFromContext returns the sessions verified by Middleware. The
// boolean is false when Middleware did not run, so callers can tell "no
// session" from "not checked".
func SessionsFromContext(ctx context.Context) (Sessions, bool) {
	ss, ok := ctx.Value(sessionsContextKey{}).(Sessions)
	return ss, ok
}

// Middleware verifies both session cookies once and attaches the result to
// the request context. A valid super-admin cookie wins over a user cookie
// for SessionFromContext. Invalid cookies count as absent.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithSessions(r.Context(), v.Sessions(r))))
		})
	}
}

// LoggerExtractor adds the session binding to log records.
func LoggerExtractor() func(context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if s := SessionFromContext(ctx); s != nil {
			return slog.String("session", s.Binding()), true
		}
		return slog.Attr{}, false
	}
}
