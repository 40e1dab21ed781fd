package handlers

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
)

// NotFound writes the error envelope for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteErrorWithRequestID(w,
		apierrors.NewNotFoundError("no route for "+r.Method+" "+r.URL.Path),
		chimiddleware.GetReqID(r.Context()))
}

// MethodNotAllowed writes the error envelope for a known route hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteErrorWithRequestID(w,
		apierrors.New(apierrors.CodeMethodNotAllowed, "method "+r.Method+" not allowed"),
		chimiddleware.GetReqID(r.Context()))
}
