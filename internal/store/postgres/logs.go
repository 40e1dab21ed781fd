package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/narvanalabs/logbook/internal/models"
	"github.com/narvanalabs/logbook/internal/store"
)

const selectColumns = `id, owner, log_text, created_at, updated_at`

// Create inserts a new record.
func (s *PostgresStore) Create(ctx context.Context, owner, logText string) (*models.LogRecord, error) {
	if err := store.ValidateNew(owner, logText); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO log_records (id, owner, log_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING ` + selectColumns

	now := s.now().UTC()
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, s.ids.NextID(), owner, logText, now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("inserting log record: %w", err)
	}

	s.logger.Debug("log record created", "id", rec.ID, "owner", owner)
	return rec, nil
}

// List returns one page of the newest-first ordering. The count and the
// page are read from one repeatable-read snapshot.
func (s *PostgresStore) List(ctx context.Context, page, limit int) (*models.Page, error) {
	if err := store.ValidatePage(page, limit); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM log_records`).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting log records: %w", err)
	}

	start, end := models.PageBounds(page, limit, total)
	items, err := listRange(ctx, tx, start, end-start)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &models.Page{
		Items:      items,
		Total:      total,
		TotalPages: models.TotalPages(total, limit),
	}, nil
}

// Get retrieves a record by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.LogRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM log_records WHERE id = $1`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying log record: %w", err)
	}
	return rec, nil
}

// Update applies a partial update. NULL parameters leave the column as is.
// updated_at advances by at least one microsecond, the column's precision.
func (s *PostgresStore) Update(ctx context.Context, id string, patch models.LogRecordPatch) (*models.LogRecord, error) {
	query := `
		UPDATE log_records
		SET owner      = COALESCE($2::text, owner),
		    log_text   = COALESCE($3::text, log_text),
		    updated_at = GREATEST($4::timestamptz, updated_at + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING ` + selectColumns

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id, patch.Owner, patch.LogText, s.now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("updating log record: %w", err)
	}

	s.logger.Debug("log record updated", "id", id)
	return rec, nil
}

// Delete permanently removes a record.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM log_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting log record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.logger.Debug("log record deleted", "id", id)
	return nil
}

// listRange reads count records newest-first starting at offset.
func listRange(ctx context.Context, q queryable, offset, count int) ([]*models.LogRecord, error) {
	items := make([]*models.LogRecord, 0, count)
	if count <= 0 {
		return items, nil
	}

	query := `
		SELECT ` + selectColumns + `
		FROM log_records
		ORDER BY seq DESC
		LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, count, offset)
	if err != nil {
		return nil, fmt.Errorf("querying log records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning log record row: %w", err)
		}
		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log record rows: %w", err)
	}

	return items, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.LogRecord, error) {
	rec := &models.LogRecord{}
	if err := row.Scan(&rec.ID, &rec.Owner, &rec.LogText, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
