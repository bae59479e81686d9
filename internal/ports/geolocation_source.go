package ports

import (
	"campus-route-service/internal/domain"
	"context"
)

// Source of the user's current position.
type GeolocationSource interface {
	// Failures are reported as *domain.GeolocationError or
	// domain.ErrGeolocationUnavailable.
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}
