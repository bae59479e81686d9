package ports

import (
	"campus-route-service/internal/domain"
	"context"
)

// Port: a boundary for retrieving the campus place catalogue.
type PlaceRepository interface {
	// Retrieve all catalogued places ordered by name.
	ListPlaces(ctx context.Context) ([]domain.Place, error)
	// Retrieve a single place; domain.ErrPlaceNotFound when absent.
	FindPlace(ctx context.Context, name string) (domain.Place, error)
}
