// Package store provides the log record store interface shared by all backends.
package store

import (
	"context"

	"github.com/narvanalabs/logbook/internal/models"
)

// LogStore is the sole authority over the log record collection.
// Every method is atomic with respect to the others, and every returned
// record is a copy the caller may keep or modify freely.
type LogStore interface {
	// Create stores a new record and returns it. Owner and logText must be
	// non-empty after trimming.
	Create(ctx context.Context, owner, logText string) (*models.LogRecord, error)
	// List returns one page of the newest-first ordering. page and limit are 1-based and positive.
	List(ctx context.Context, page, limit int) (*models.Page, error)
	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*models.LogRecord, error)
	// Update applies a partial update and refreshes UpdatedAt.
	// Supplied fields are written as given, even when empty.
	Update(ctx context.Context, id string, patch models.LogRecordPatch) (*models.LogRecord, error)
	// Delete permanently removes a record.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// ValidatePage checks the pagination arguments accepted by List.
func ValidatePage(page, limit int) error {
	if page < 1 {
		return NewValidationError("page", "page must be at least 1")
	}
	if limit < 1 {
		return NewValidationError("limit", "limit must be at least 1")
	}
	return nil
}

// ValidateNew checks the fields of a record about to be created.
func ValidateNew(owner, logText string) error {
	r := models.LogRecord{Owner: owner, LogText: logText}
	if err := r.ValidateOwner(); err != nil {
		return NewValidationError("owner", err.Error())
	}
	if err := r.ValidateLogText(); err != nil {
		return NewValidationError("logText", err.Error())
	}
	return nil
}
