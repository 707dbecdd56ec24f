package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trip-planner-service/internal/domain"
)

// SQLite-backed estimate store. The autoincrement id column preserves
// insertion order across restarts.
type SqliteStore struct {
	DB   *sql.DB
	Zone *time.Location
}

func NewSqliteStore(db *sql.DB, zone *time.Location) *SqliteStore {
	if zone == nil {
		zone = time.UTC
	}
	return &SqliteStore{DB: db, Zone: zone}
}

// Initialize the SQLite schema for the estimate cache.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS estimate_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		minutes REAL NOT NULL,
		recorded_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create estimate_cache: %w", err)
	}

	return nil
}

// Load all persisted estimate records in insertion order.
func (s *SqliteStore) Load(ctx context.Context) ([]domain.EstimateRecord, error) {
	if s.DB == nil {
		return nil, errors.New("estimate store: db is nil")
	}

	q := `
	SELECT
		origin,
		destination,
		minutes,
		recorded_at
	FROM estimate_cache
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load estimate cache: query estimate_cache table: %w", err)
	}
	defer rows.Close()

	var records []domain.EstimateRecord
	for rows.Next() {
		var origin, destination, recordedAt string
		var minutes float64
		if err := rows.Scan(&origin, &destination, &minutes, &recordedAt); err != nil {
			return nil, fmt.Errorf("load estimate cache: scan row: %w", err)
		}

		ts, err := domain.ParseTimestamp(recordedAt, s.Zone)
		if err != nil {
			return nil, fmt.Errorf("load estimate cache: parse recorded_at %q: %w", recordedAt, err)
		}

		records = append(records, domain.EstimateRecord{
			Origin:      origin,
			Destination: destination,
			Minutes:     minutes,
			RecordedAt:  ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load estimate cache: row iteration: %w", err)
	}

	return records, nil
}

// Save the complete snapshot, replacing previous contents in one
// transaction.
func (s *SqliteStore) Save(ctx context.Context, records []domain.EstimateRecord) error {
	if s.DB == nil {
		return errors.New("estimate store: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save estimate cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM estimate_cache;`); err != nil {
		return fmt.Errorf("save estimate cache: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO estimate_cache (
		origin,
		destination,
		minutes,
		recorded_at
	)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save estimate cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		ts := rec.RecordedAt.In(s.Zone).Format(domain.TimestampLayout)
		if _, err := stmt.ExecContext(ctx, rec.Origin, rec.Destination, rec.Minutes, ts); err != nil {
			return fmt.Errorf("save estimate cache leg=%q: %w", rec.Origin+" -> "+rec.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save estimate cache: commit: %w", err)
	}

	return nil
}
