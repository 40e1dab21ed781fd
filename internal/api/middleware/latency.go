package middleware

import (
	"net/http"
	"time"

	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
)

// Latency returns a middleware that holds every request for d before
// passing it on, for exercising client loading states. A request whose
// context ends during the wait is answered with 503 and never reaches next.
// A non-positive d disables the delay.
func Latency(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := time.NewTimer(d)
			defer timer.Stop()

			select {
			case <-timer.C:
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
				apierrors.WriteError(w, apierrors.New(apierrors.CodeUnavailable, "request cancelled during simulated latency"))
			}
		})
	}
}
