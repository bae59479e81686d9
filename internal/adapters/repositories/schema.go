package repositories

import (
	"campus-route-service/internal/platform/db"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Create the catalogue and geocode cache tables if they are missing.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		name TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	statements := []string{createPlacesQuery, createGeocodeCacheQuery}
	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): exec statement #%d: %w", dialect, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

type PlaceSeed struct {
	Name  string  `json:"name"`
	Title string  `json:"title"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Populate the catalogue from a JSON array of places. Existing rows with the
// same name are replaced. Returns the number of places written.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	rows := make([]PlaceSeed, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed places: item %d: name cannot be empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return 0, fmt.Errorf("seed places: item %d: duplicate name %q", i+1, name)
		}
		seen[name] = struct{}{}

		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return 0, fmt.Errorf("seed places: item %d (%s): coordinates out of range", i+1, name)
		}
		title := item.Title
		if strings.TrimSpace(title) == "" {
			title = name
		}
		rows = append(rows, PlaceSeed{Name: name, Title: title, Lat: item.Lat, Lng: item.Lng})
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO places (name, title, lat, lng)
	VALUES (%s)
	ON CONFLICT (name) DO UPDATE
	SET title = EXCLUDED.title,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`, dialect.Placeholders(1, 4))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Title, p.Lat, p.Lng); err != nil {
			return 0, fmt.Errorf("seed places: insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed places: commit tx: %w", err)
	}
	return len(rows), nil
}
