package geolocation

import (
	"campus-route-service/internal/domain"
	"context"
	"strings"
)

// Fixed always reports the same position, e.g. one given on the command line.
type Fixed struct {
	Position domain.Coordinates
}

func (f Fixed) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, &domain.GeolocationError{Message: err.Error()}
	}
	return f.Position, nil
}

// Reported wraps what a browser's geolocation API handed back: either a
// position or the human readable error message.
type Reported struct {
	Position *domain.Coordinates
	Message  string
}

func (r Reported) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return domain.Coordinates{}, &domain.GeolocationError{Message: msg}
	}
	if r.Position == nil {
		return domain.Coordinates{}, domain.ErrGeolocationUnavailable
	}
	if !r.Position.Valid() {
		return domain.Coordinates{}, &domain.GeolocationError{Message: "position out of range"}
	}
	return *r.Position, nil
}

// Unavailable is used when the user did not allow location services.
type Unavailable struct{}

func (Unavailable) CurrentPosition(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrGeolocationUnavailable
}
