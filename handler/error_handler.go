package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

// JSONErrorHandler writes {"error": ...}. HTTPError keeps its status and
// message; any other error becomes a 500 with a generic message so internal
// details never reach the client. Server errors are logged when log is set.
func JSONErrorHandler[C Context](log *slog.Logger) ErrorHandler[C] {
	return func(ctx C, err error) {
		status, message := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)

		var httpErr HTTPError
		if errors.As(err, &httpErr) {
			status, message = httpErr.Code, httpErr.Message
		}

		if log != nil && status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed",
				logger.Error(err),
				slog.String("method", ctx.Request().Method),
				slog.String("path", ctx.Request().URL.Path),
			)
		}

		_ = Error(status, message).Render(ctx.ResponseWriter(), ctx.Request())
	}
}
