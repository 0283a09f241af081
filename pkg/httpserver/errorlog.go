package httpserver

import (
	"log"
	"log/slog"
)

// slogErrorLog routes net/http internal errors (TLS handshakes, panics in
// handlers) through the structured logger.
func slogErrorLog(l *slog.Logger) *log.Logger {
	return slog.NewLogLogger(l.Handler(), slog.LevelWarn)
}
