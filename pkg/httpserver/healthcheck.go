package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

const checkTimeout = 3 * time.Second

// LivenessHandler always answers 200 ALIVE while the process serves HTTP.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writePlain(w, http.StatusOK, "ALIVE")
	}
}

// ReadinessHandler runs every check with a short deadline and answers
// 200 READY when all pass, 500 NOT_READY otherwise.
func ReadinessHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", logger.Component(name), logger.Error(err))
				writePlain(w, http.StatusInternalServerError, "NOT_READY")
				return
			}
		}
		writePlain(w, http.StatusOK, "READY")
	}
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
