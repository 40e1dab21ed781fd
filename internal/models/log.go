// Package models provides data structures for the logbook service.
package models

import (
	"errors"
	"strings"
	"time"
)

// LogRecord represents a single log entry owned by a named user.
type LogRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	LogText   string    `json:"logText"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogRecordPatch describes a partial update. A nil field is left unchanged.
type LogRecordPatch struct {
	Owner   *string `json:"owner,omitempty"`
	LogText *string `json:"logText,omitempty"`
}

// Page is one window of the newest-first record ordering.
type Page struct {
	Items      []*LogRecord `json:"data"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
}

// Validation errors for log records.
var (
	ErrOwnerRequired   = errors.New("owner is required")
	ErrLogTextRequired = errors.New("logText is required")
)

// ValidateOwner validates the record owner.
func (r *LogRecord) ValidateOwner() error {
	if strings.TrimSpace(r.Owner) == "" {
		return ErrOwnerRequired
	}
	return nil
}

// ValidateLogText validates the record text.
func (r *LogRecord) ValidateLogText() error {
	if strings.TrimSpace(r.LogText) == "" {
		return ErrLogTextRequired
	}
	return nil
}

// Validate validates all editable fields of the record.
func (r *LogRecord) Validate() error {
	if err := r.ValidateOwner(); err != nil {
		return err
	}
	return r.ValidateLogText()
}

// Clone returns a copy that shares no memory with r.
func (r *LogRecord) Clone() *LogRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Apply replaces every field present in the patch.
// It reports whether any field was present.
func (p LogRecordPatch) Apply(r *LogRecord) bool {
	applied := false
	if p.Owner != nil {
		r.Owner = *p.Owner
		applied = true
	}
	if p.LogText != nil {
		r.LogText = *p.LogText
		applied = true
	}
	return applied
}

// IsEmpty returns true if the patch carries no fields.
func (p LogRecordPatch) IsEmpty() bool {
	return p.Owner == nil && p.LogText == nil
}

// TotalPages returns the number of pages of size limit needed to hold total items.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}

// PageBounds returns the half-open [start, end) range of a page clipped to total.
// start == end when the page lies past the end of the collection.
// Pages far past the end are clamped before multiplying so the offset cannot overflow.
func PageBounds(page, limit, total int) (start, end int) {
	if total <= 0 || limit <= 0 || page < 1 || page-1 > total/limit {
		return max(total, 0), max(total, 0)
	}
	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = total
	if limit < total-start {
		end = start + limit
	}
	return start, end
}
