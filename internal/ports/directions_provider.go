package ports

import (
	"campus-route-service/internal/domain"
	"context"
)

// Contract for the external service that turns an ordered route into
// turn-by-turn directions.
type DirectionsProvider interface {
	// Compute directions for the request. A non-success answer from the
	// service is reported as *domain.ProviderError.
	ComputeRoute(ctx context.Context, req domain.DirectionsRequest) (*domain.Itinerary, error)
}
