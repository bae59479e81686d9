package repositories

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/db"
	"campus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the PlaceRepository port.
type SQLPlaceRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLPlaceRepository(conn *sql.DB, dialect db.Dialect) *SQLPlaceRepository {
	return &SQLPlaceRepository{DB: conn, Dialect: dialect}
}

// Return every catalogued place ordered by name.
func (s *SQLPlaceRepository) ListPlaces(ctx context.Context) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "places.ListPlaces")(&err)

	if s.DB == nil {
		return nil, errors.New("place repository: DB is nil")
	}

	query := `
	SELECT name, title, lat, lng
	FROM places
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]domain.Place, 0, 32)
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(&p.Name, &p.Title, &p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}

func (s *SQLPlaceRepository) FindPlace(ctx context.Context, name string) (_ domain.Place, err error) {
	defer obs.Time(ctx, "places.FindPlace")(&err)

	if s.DB == nil {
		return domain.Place{}, errors.New("place repository: DB is nil")
	}

	query := fmt.Sprintf(`
	SELECT name, title, lat, lng
	FROM places
	WHERE name = %s;
	`, s.Dialect.Placeholder(1))

	var p domain.Place
	err = s.DB.QueryRowContext(ctx, query, name).Scan(&p.Name, &p.Title, &p.Lat, &p.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Place{}, fmt.Errorf("find place %q: %w", name, domain.ErrPlaceNotFound)
	}
	if err != nil {
		return domain.Place{}, fmt.Errorf("find place %q: %w", name, err)
	}
	return p, nil
}
