// Package handlers provides the HTTP handlers for the log record API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
	"github.com/narvanalabs/logbook/internal/models"
	"github.com/narvanalabs/logbook/internal/store"
	"github.com/narvanalabs/logbook/pkg/logger"
)

// Default pagination values applied when a query parameter is missing or invalid.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// maxBodyBytes bounds request bodies; log texts are short.
const maxBodyBytes = 1 << 20

// LogHandlerOptions tunes boundary behavior of a LogHandler.
type LogHandlerOptions struct {
	DefaultLimit int
	MaxLimit     int
	// AllowBlankUpdates passes explicitly blank fields through to the store,
	// clearing them. When false such updates are rejected.
	AllowBlankUpdates bool
}

// LogHandler handles log record HTTP requests.
type LogHandler struct {
	store    store.LogStore
	validate *validator.Validate
	opts     LogHandlerOptions
	logger   *logger.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(st store.LogStore, opts LogHandlerOptions, l *slog.Logger) *LogHandler {
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = DefaultPageLimit
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = max(MaxPageLimit, opts.DefaultLimit)
	}
	if l == nil {
		l = slog.Default()
	}

	return &LogHandler{
		store:    st,
		validate: newValidator(),
		opts:     opts,
		logger:   &logger.Logger{Logger: l},
	}
}

// ListLogsResponse is the paginated list envelope.
type ListLogsResponse struct {
	Data       []*models.LogRecord `json:"data"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

// DeleteLogResponse confirms a deletion.
type DeleteLogResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// List handles GET /logs - returns one page of records, newest first.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := h.parsePagination(r)

	result, err := h.store.List(r.Context(), page, limit)
	if err != nil {
		h.writeStoreError(w, r, err, "failed to list logs")
		return
	}

	h.logger.Debug("logs listed", "page", page, "limit", limit, "total", result.Total)
	apierrors.WriteJSON(w, http.StatusOK, &ListLogsResponse{
		Data:       result.Items,
		Total:      result.Total,
		Page:       page,
		Limit:      limit,
		TotalPages: result.TotalPages,
	})
}

// Create handles POST /logs - creates a new record.
func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLogRequest
	if !h.decode(w, r, &req) {
		return
	}

	if fields := h.validateStruct(&req); fields.HasErrors() {
		h.logger.WithContext(r.Context()).Warn("rejected log create", "fields", fields)
		apiErr := fields.ToAPIError()
		apiErr.Message = "owner and logText are required"
		h.writeError(w, r, apiErr)
		return
	}

	rec, err := h.store.Create(r.Context(), req.Owner, req.LogText)
	if err != nil {
		h.writeStoreError(w, r, err, "failed to create log")
		return
	}

	h.logger.Info("log created", "id", rec.ID, "owner", rec.Owner)
	apierrors.WriteJSON(w, http.StatusCreated, rec)
}

// Get handles GET /logs/{logID} - returns a single record.
func (h *LogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "logID")

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, "failed to get log")
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, rec)
}

// Update handles PUT and PATCH /logs/{logID} - applies a partial update.
func (h *LogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "logID")

	var req UpdateLogRequest
	if !h.decode(w, r, &req) {
		return
	}

	if !h.opts.AllowBlankUpdates {
		if fields := h.validateStruct(&req); fields.HasErrors() {
			h.logger.WithContext(r.Context()).Warn("rejected log update", "id", id, "fields", fields)
			h.writeError(w, r, fields.ToAPIError())
			return
		}
	}

	rec, err := h.store.Update(r.Context(), id, req.Patch())
	if err != nil {
		h.writeStoreError(w, r, err, "failed to update log")
		return
	}

	h.logger.Info("log updated", "id", rec.ID)
	apierrors.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /logs/{logID} - permanently removes a record.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "logID")

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err, "failed to delete log")
		return
	}

	h.logger.Info("log deleted", "id", id)
	apierrors.WriteJSON(w, http.StatusOK, &DeleteLogResponse{
		ID:      id,
		Message: "log " + id + " deleted",
	})
}

// parsePagination reads page and limit, falling back to defaults for
// missing, non-numeric or non-positive values and capping limit.
func (h *LogHandler) parsePagination(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page = positiveIntOr(q.Get("page"), DefaultPage)
	limit = positiveIntOr(q.Get("limit"), h.opts.DefaultLimit)
	if limit > h.opts.MaxLimit {
		limit = h.opts.MaxLimit
	}
	return page, limit
}

func positiveIntOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// decode reads a JSON body into dst, writing a 400 and returning false on failure.
func (h *LogHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		message := "invalid request body"
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		h.logger.WithContext(r.Context()).Warn("malformed request body", "path", r.URL.Path, "error", err)
		h.writeError(w, r, apierrors.NewValidationError(message))
		return false
	}
	return true
}

func (h *LogHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	apiErr, clientErr := apierrors.FromStoreError(err)
	if clientErr {
		h.logger.WithContext(r.Context()).Warn(msg, "path", r.URL.Path, "error", err)
	} else {
		h.logger.WithContext(r.Context()).Error(msg, "path", r.URL.Path, "error", err)
	}
	h.writeError(w, r, apiErr)
}

func (h *LogHandler) writeError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	apierrors.WriteErrorWithRequestID(w, apiErr, logger.RequestIDFromContext(r.Context()))
}
