package directions

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// Status codes the Directions API may answer with.
var googleStatuses = []string{
	"NOT_FOUND",
	"ZERO_RESULTS",
	"MAX_WAYPOINTS_EXCEEDED",
	"MAX_ROUTE_LENGTH_EXCEEDED",
	"INVALID_REQUEST",
	"OVER_DAILY_LIMIT",
	"OVER_QUERY_LIMIT",
	"REQUEST_DENIED",
	"UNKNOWN_ERROR",
}

// GoogleProvider implements ports.DirectionsProvider with the Google Maps
// Directions API.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider builds a provider. Extra options (e.g. maps.WithBaseURL)
// are appended after the API key.
func NewGoogleProvider(apiKey string, opts ...maps.ClientOption) (*GoogleProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("new google provider: %w", err)
	}

	return &GoogleProvider{client: client}, nil
}

func (g *GoogleProvider) ComputeRoute(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "google.ComputeRoute")(&err)

	waypoints := make([]string, 0, len(req.Waypoints))
	for _, w := range req.Waypoints {
		loc := w.Location
		if !w.Stopover {
			loc = "via:" + loc
		}
		waypoints = append(waypoints, loc)
	}

	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Waypoints:   waypoints,
		Mode:        googleMode(req.TravelMode),
	})
	if err != nil {
		return nil, &domain.ProviderError{Status: googleStatus(err), Err: err}
	}
	if len(routes) == 0 {
		return nil, &domain.ProviderError{Status: "ZERO_RESULTS"}
	}

	return toItinerary(routes[0])
}

func googleMode(m domain.TravelMode) maps.Mode {
	switch m {
	case domain.TravelModeWalking:
		return maps.TravelModeWalking
	}
	return maps.TravelModeWalking
}

// googleStatus digs the API status out of the client's error text
// ("maps: ZERO_RESULTS - ...").
func googleStatus(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "REQUEST_CANCELLED"
	}

	msg := err.Error()
	for _, s := range googleStatuses {
		if strings.Contains(msg, s) {
			return s
		}
	}
	return "UNKNOWN_ERROR"
}

func toItinerary(r maps.Route) (*domain.Itinerary, error) {
	it := &domain.Itinerary{Legs: make([]domain.Leg, 0, len(r.Legs))}

	for i, l := range r.Legs {
		if l == nil {
			return nil, fmt.Errorf("google directions: leg %d is empty", i)
		}

		leg := domain.Leg{
			StartAddress:  l.StartAddress,
			EndAddress:    l.EndAddress,
			StartLocation: domain.Coordinates{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			EndLocation:   domain.Coordinates{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
			Distance:      domain.Distance{Text: l.Distance.HumanReadable, Meters: l.Distance.Meters},
			Duration:      domain.NewDuration(int(l.Duration.Seconds())),
			Steps:         make([]domain.Step, 0, len(l.Steps)),
		}

		for _, s := range l.Steps {
			if s == nil {
				continue
			}

			step := domain.Step{
				Instructions: s.HTMLInstructions,
				Distance:     domain.Distance{Text: s.Distance.HumanReadable, Meters: s.Distance.Meters},
				Duration:     domain.NewDuration(int(s.Duration.Seconds())),
			}

			// Geometry is best effort; directions text is still usable without it.
			if s.Polyline.Points != "" {
				if pts, err := s.Polyline.Decode(); err == nil {
					step.Path = make([]domain.Coordinates, 0, len(pts))
					for _, p := range pts {
						step.Path = append(step.Path, domain.Coordinates{Lat: p.Lat, Lng: p.Lng})
					}
				}
			}

			leg.Steps = append(leg.Steps, step)
		}

		it.Legs = append(it.Legs, leg)
	}

	return it, nil
}
