package handlers

import (
	"log/slog"
	"net/http"
)

// DocsHandler serves the OpenAPI description of the API.
type DocsHandler struct {
	document []byte
	logger   *slog.Logger
}

// NewDocsHandler creates a docs handler for the given OpenAPI document.
func NewDocsHandler(document []byte, logger *slog.Logger) *DocsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocsHandler{document: document, logger: logger}
}

// ServeOpenAPISpec handles GET /api/docs/openapi.yaml.
func (h *DocsHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.document) == 0 {
		h.logger.Error("OpenAPI specification is empty")
		NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.document); err != nil {
		h.logger.Debug("writing OpenAPI document", "error", err)
	}
}
