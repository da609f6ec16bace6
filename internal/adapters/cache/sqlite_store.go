package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"route-insight-service/internal/domain"
)

// SQLite backed overlay store for the address cache. Address keys are
// expected to be normalized by the caller.
type SqliteOverlayStore struct {
	DB *sql.DB
}

func NewSqliteOverlayStore(db *sql.DB) *SqliteOverlayStore {
	return &SqliteOverlayStore{DB: db}
}

// Initialize the SQLite schema for the overlay table.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS address_cache (
        address TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL
    );
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create address_cache table: %w", err)
	}

	return nil
}

// Retrieve every persisted overlay entry.
func (s *SqliteOverlayStore) LoadAll(ctx context.Context) (map[string]domain.Coordinates, error) {
	if s.DB == nil {
		return nil, errors.New("overlay store: db is nil")
	}

	q := `
	SELECT
        address,
        lat,
        lon
    FROM address_cache;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load overlay: query address_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates)
	for rows.Next() {
		var addr string
		var lat, lon float64
		if err := rows.Scan(&addr, &lat, &lon); err != nil {
			return nil, fmt.Errorf("load overlay: scan rows: %w", err)
		}
		out[addr] = domain.Coordinates{Lat: lat, Lon: lon}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load overlay: row iteration: %w", err)
	}

	return out, nil
}

// Overwrite the stored overlay with the full current mapping.
func (s *SqliteOverlayStore) SaveAll(ctx context.Context, entries map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("overlay store: db is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save overlay: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO address_cache (
        address,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save overlay: db prepare: %w", err)
	}
	defer stmt.Close()

	for addr, c := range entries {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("save overlay: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, addr, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("save overlay coord=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save overlay commit: %w", err)
	}

	return nil
}
