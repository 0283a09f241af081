package logger

import "log/slog"

// Error records err under "error". A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component, e.g. "csrf" or "tenant".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request correlation id.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Subdomain records the tenant subdomain derived from the Host header.
func Subdomain(s string) slog.Attr {
	if s == "" {
		return slog.Attr{}
	}
	return slog.String("subdomain", s)
}

// Binding records what a CSRF token is bound to ("user:<id>", "super_admin:<id>", "anon:<id>").
func Binding(b string) slog.Attr {
	return slog.String("csrf_binding", b)
}

// Outcome records the result class of an operation ("found", "not_found", "failed", ...).
func Outcome(o string) slog.Attr {
	return slog.String("outcome", o)
}

// Duration records an elapsed time.
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
