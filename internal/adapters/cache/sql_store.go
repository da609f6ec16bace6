package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"route-insight-service/internal/domain"
	"route-insight-service/internal/platform/obs"
)

// SQLOverlayStore is a Postgres-backed overlay store for shared
// deployments where several operators feed the same cache.
type SQLOverlayStore struct {
	DB *sql.DB
}

func NewSQLOverlayStore(db *sql.DB) *SQLOverlayStore {
	return &SQLOverlayStore{DB: db}
}

// Initialize the Postgres schema for the overlay table.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS address_cache (
        address TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL
    );
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init schema: create address_cache table: %w", err)
	}

	return nil
}

// Retrieve every persisted overlay entry.
func (s *SQLOverlayStore) LoadAll(ctx context.Context) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "cache.overlay.LoadAll")(&err)

	if s.DB == nil {
		return nil, errors.New("overlay store: db is nil")
	}

	q := `
	SELECT address, lat, lon
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
func (s *SQLOverlayStore) SaveAll(ctx context.Context, entries map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "cache.overlay.SaveAll")(&err)

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
	INSERT INTO address_cache (address, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
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
