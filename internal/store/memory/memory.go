// Package memory provides an in-process implementation of store.LogStore.
// Records live only as long as the MemoryStore value.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/narvanalabs/logbook/internal/models"
	"github.com/narvanalabs/logbook/internal/store"
)

// MemoryStore implements store.LogStore with a map keyed by ID plus an
// insertion-order index. order holds IDs oldest-first; newest-first views
// read it from the back.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.LogRecord
	order   []string

	ids    store.IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator sets the identifier source.
func WithIDGenerator(gen store.IDGenerator) Option {
	return func(s *MemoryStore) {
		s.ids = gen
	}
}

// WithClock sets the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// New creates an empty MemoryStore.
func New(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]*models.LogRecord),
		ids:     store.UUIDGenerator{},
		now:     time.Now,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create stores a new record at the front of the newest-first order.
func (s *MemoryStore) Create(ctx context.Context, owner, logText string) (*models.LogRecord, error) {
	if err := store.ValidateNew(owner, logText); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.NextID()
	if _, exists := s.records[id]; exists {
		return nil, fmt.Errorf("id generator returned live id %q", id)
	}

	now := s.now().UTC()
	rec := &models.LogRecord{
		ID:        id,
		Owner:     owner,
		LogText:   logText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[id] = rec
	s.order = append(s.order, id)

	s.logger.Debug("log record created", "id", id, "owner", owner)
	return rec.Clone(), nil
}

// List returns one page of the newest-first ordering.
func (s *MemoryStore) List(ctx context.Context, page, limit int) (*models.Page, error) {
	if err := store.ValidatePage(page, limit); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	start, end := models.PageBounds(page, limit, total)

	items := make([]*models.LogRecord, 0, end-start)
	for i := start; i < end; i++ {
		id := s.order[total-1-i]
		items = append(items, s.records[id].Clone())
	}

	return &models.Page{
		Items:      items,
		Total:      total,
		TotalPages: models.TotalPages(total, limit),
	}, nil
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

// Update applies patch to the record and refreshes UpdatedAt.
// Position in the ordering is unchanged.
func (s *MemoryStore) Update(ctx context.Context, id string, patch models.LogRecordPatch) (*models.LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	patch.Apply(rec)
	rec.UpdatedAt = s.nextUpdatedAt(rec.UpdatedAt)

	s.logger.Debug("log record updated", "id", id)
	return rec.Clone(), nil
}

// Delete removes the record. IDs are never handed out again.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}

	delete(s.records, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}

	s.logger.Debug("log record deleted", "id", id)
	return nil
}

// Len returns the number of live records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op; the records are released with the store.
func (s *MemoryStore) Close() error {
	return nil
}

// nextUpdatedAt returns the current time, moved past prev if the clock has
// not advanced, so that UpdatedAt strictly increases on every mutation.
// Callers must hold s.mu.
func (s *MemoryStore) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

var _ store.LogStore = (*MemoryStore)(nil)
