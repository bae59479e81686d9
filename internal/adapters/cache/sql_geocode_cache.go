package cache

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/db"
	"campus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLGeocodeCache keeps free-text search results so repeated searches for the
// same text skip the geocoder. Works against SQLite and Postgres.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Fetch cached coordinates for the given search texts. Misses are absent
// from the result.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	args := make([]any, len(uniq))
	for i, a := range uniq {
		args[i] = a
	}

	// Only the placeholder list is interpolated; values stay parameterized.
	q := fmt.Sprintf(`
	SELECT address, lat, lon
	FROM geocode_cache
	WHERE address IN (%s);
	`, s.Dialect.Placeholders(1, len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lat, &c.Lng); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan row: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store search text -> coordinate mappings, replacing older entries.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put geocode cache: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO geocode_cache (address, lat, lon)
	VALUES (%s)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`, s.Dialect.Placeholders(1, 3)))
	if err != nil {
		return fmt.Errorf("put geocode cache: prepare: %w", err)
	}
	defer stmt.Close()

	for addr, c := range results {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return errors.New("put geocode cache: empty address key")
		}
		if !c.Valid() {
			return fmt.Errorf("put geocode cache %q: coordinates out of range", addr)
		}
		if _, err := stmt.ExecContext(ctx, addr, c.Lat, c.Lng); err != nil {
			return fmt.Errorf("put geocode cache %q: %w", addr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put geocode cache: commit: %w", err)
	}
	return nil
}
