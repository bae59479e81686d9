package directions

import (
	"campus-route-service/internal/domain"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Average walking pace used for synthesized durations.
const walkingMetersPerSecond = 1.4

// MockRoute is a canned answer for one exact sequence of stops.
// A non-empty Status makes the provider fail with that status.
type MockRoute struct {
	Stops     []string
	Itinerary *domain.Itinerary
	Status    string
}

// MockDirectionsProvider answers from canned routes and otherwise walks in
// straight lines between stops it can locate (catalogued places and
// "lat, lng" strings). It records every request it receives.
type MockDirectionsProvider struct {
	places map[string]domain.Coordinates
	routes map[string]MockRoute

	mu    sync.Mutex
	calls []domain.DirectionsRequest
}

func NewMockDirectionsProvider(places []domain.Place, routes ...MockRoute) *MockDirectionsProvider {
	p := &MockDirectionsProvider{
		places: make(map[string]domain.Coordinates, len(places)),
		routes: make(map[string]MockRoute, len(routes)),
	}
	for _, pl := range places {
		p.places[pl.Name] = pl.Coordinates()
	}
	for _, r := range routes {
		p.routes[mockKey(r.Stops)] = r
	}
	return p
}

func mockKey(stops []string) string {
	return strings.Join(stops, "|")
}

func (p *MockDirectionsProvider) ComputeRoute(ctx context.Context, req domain.DirectionsRequest) (*domain.Itinerary, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &domain.ProviderError{Status: "REQUEST_CANCELLED", Err: err}
	}

	stops := req.Stops()
	if r, ok := p.routes[mockKey(stops)]; ok {
		if r.Status != "" {
			return nil, &domain.ProviderError{Status: r.Status}
		}
		return r.Itinerary, nil
	}

	coords := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		c, ok := p.locate(s)
		if !ok {
			return nil, &domain.ProviderError{Status: "NOT_FOUND", Err: fmt.Errorf("cannot locate %q", s)}
		}
		coords = append(coords, c)
	}

	it := &domain.Itinerary{Legs: make([]domain.Leg, 0, len(coords)-1)}
	for i := 0; i+1 < len(coords); i++ {
		from, to := coords[i], coords[i+1]
		meters := int(math.Round(geo.Distance(orb.Point{from.Lng, from.Lat}, orb.Point{to.Lng, to.Lat})))
		seconds := int(math.Round(float64(meters) / walkingMetersPerSecond))

		it.Legs = append(it.Legs, domain.Leg{
			StartAddress:  stops[i],
			EndAddress:    stops[i+1],
			StartLocation: from,
			EndLocation:   to,
			Distance:      domain.NewDistance(meters),
			Duration:      domain.NewDuration(seconds),
			Steps: []domain.Step{{
				Instructions: fmt.Sprintf("Walk from %s to %s", stops[i], stops[i+1]),
				Distance:     domain.NewDistance(meters),
				Duration:     domain.NewDuration(seconds),
				Path:         []domain.Coordinates{from, to},
			}},
		})
	}

	return it, nil
}

func (p *MockDirectionsProvider) locate(stop string) (domain.Coordinates, bool) {
	if c, ok := p.places[stop]; ok {
		return c, true
	}
	if c, err := domain.ParseLatLng(stop); err == nil {
		return c, true
	}
	return domain.Coordinates{}, false
}

// Calls returns the requests received so far.
func (p *MockDirectionsProvider) Calls() []domain.DirectionsRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.DirectionsRequest, len(p.calls))
	copy(out, p.calls)
	return out
}
