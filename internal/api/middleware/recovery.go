package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
)

// Recovery returns a middleware that turns a panicking handler into a 500
// error envelope and logs the panic with its stack trace.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := middleware.GetReqID(r.Context())
				logEntry := apierrors.NewErrorLogEntry(requestID, apierrors.CodeInternalError, "panic recovered")

				attrs := append(logEntry.ToSlogAttrs(),
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				logger.Error("panic recovered", attrs...)

				apierrors.WriteErrorWithRequestID(w, apierrors.NewInternalError("an unexpected error occurred"), requestID)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
