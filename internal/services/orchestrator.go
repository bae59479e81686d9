package services

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"campus-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Snapshot of the route as the UI displays it.
type RouteView struct {
	Stops       []string          `json:"stops"`
	Origin      string            `json:"origin,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Waypoints   []domain.Waypoint `json:"waypoints"`
	Valid       bool              `json:"valid"`
}

// Outcome of a successful directions computation.
type Outcome struct {
	Request   domain.DirectionsRequest
	Itinerary *domain.Itinerary
	Text      string
}

// Result is delivered by CalculateAsync.
type Result struct {
	Outcome *Outcome
	Err     error
}

// Orchestrator owns one session's Route and turns user events into route
// mutations and directions requests.
//
// All state is guarded by mu so concurrent callers are serialised as if they
// were events on a single UI thread. The provider call itself runs without
// the lock on a snapshot of the route.
type Orchestrator struct {
	places   map[string]domain.Place
	provider ports.DirectionsProvider
	renderer ports.MapRenderer

	mu            sync.Mutex
	route         *domain.Route
	list          []domain.StopListItem
	itineraryText string
	// Bumped by Clear so responses for a discarded route are dropped.
	generation uint64
}

// NewOrchestrator builds a session around the catalogue and places one marker
// per catalogued place on the renderer.
func NewOrchestrator(
	places []domain.Place,
	provider ports.DirectionsProvider,
	renderer ports.MapRenderer,
) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("new orchestrator: provider must be non-nil")
	}
	if renderer == nil {
		return nil, errors.New("new orchestrator: renderer must be non-nil")
	}

	byName := make(map[string]domain.Place, len(places))
	for _, p := range places {
		byName[p.Name] = p
		renderer.PlaceMarker(p.Marker())
	}

	return &Orchestrator{
		places:   byName,
		provider: provider,
		renderer: renderer,
		route:    domain.NewRoute(),
		list:     []domain.StopListItem{},
	}, nil
}

// AddPlace adds a catalogued place, as double-clicking its marker does.
func (o *Orchestrator) AddPlace(name string) error {
	p, ok := o.places[name]
	if !ok {
		return fmt.Errorf("add place %q: %w", name, domain.ErrUnknownPlace)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.route.AddToRoute(p.Name, true)
	o.list = append(o.list, domain.StopListItem{ID: p.Name, Label: p.Name})
	return nil
}

// AddSearch adds the raw search box text as a stop.
func (o *Orchestrator) AddSearch(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptySearch
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.route.AddToRoute(text, true)
	o.list = append(o.list, domain.StopListItem{ID: text, Label: text})
	return nil
}

// AddCurrentLocation asks src for the user's position and appends it as a
// "lat, lng" stop. The route is untouched when the lookup fails.
func (o *Orchestrator) AddCurrentLocation(ctx context.Context, src ports.GeolocationSource) (err error) {
	defer obs.Time(ctx, "orchestrator.AddCurrentLocation")(&err)

	if src == nil {
		return domain.ErrGeolocationUnavailable
	}

	pos, err := src.CurrentPosition(ctx)
	if err != nil {
		return fmt.Errorf("add current location: %w", err)
	}
	if !pos.Valid() {
		return fmt.Errorf("add current location: %w", &domain.GeolocationError{Message: "position out of range"})
	}

	id := domain.FormatLatLng(pos)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.route.AddToRoute(id, false)
	o.list = append(o.list, domain.StopListItem{ID: domain.CurrentLocationLabel, Label: domain.CurrentLocationLabel})
	return nil
}

// Calculate validates the route and, when it has at least two stops, asks
// the provider for walking directions.
//
// On success the itinerary text is replaced and the itinerary is handed to
// the renderer. On failure nothing changes so the user can simply retry.
// Stops added while the request is in flight do not stop its result from
// being applied.
func (o *Orchestrator) Calculate(ctx context.Context) (_ *Outcome, err error) {
	defer obs.Time(ctx, "orchestrator.Calculate")(&err)

	o.mu.Lock()
	req, err := o.route.DirectionsRequest()
	gen := o.generation
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	it, err := o.provider.ComputeRoute(ctx, req)
	if err != nil {
		var pe *domain.ProviderError
		if !errors.As(err, &pe) {
			err = &domain.ProviderError{Status: "UNKNOWN_ERROR", Err: err}
		}
		log.Warn().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("Directions error")
		return nil, err
	}
	if it == nil {
		return nil, &domain.ProviderError{Status: "ZERO_RESULTS"}
	}

	out := &Outcome{Request: req, Itinerary: it, Text: FormatItinerary(it)}

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		log.Info().
			Str("req_id", obs.RequestID(ctx)).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Msg("Dropping directions for a cleared route")
		return out, nil
	}

	o.itineraryText = out.Text
	o.renderer.Render(it)

	log.Info().
		Str("req_id", obs.RequestID(ctx)).
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Int("legs", len(it.Legs)).
		Msg("Successfully routed")

	return out, nil
}

// CalculateAsync runs Calculate in the background and delivers its result
// once on the returned channel.
func (o *Orchestrator) CalculateAsync(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		out, err := o.Calculate(ctx)
		ch <- Result{Outcome: out, Err: err}
		close(ch)
	}()
	return ch
}

// Clear discards the route and starts a new one. Markers stay on the map.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.route = domain.NewRoute()
	o.list = []domain.StopListItem{}
	o.itineraryText = ""
	o.generation++
	o.renderer.ClearRoute()
}

func (o *Orchestrator) Route() RouteView {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := RouteView{
		Stops:     o.route.Stops(),
		Waypoints: o.route.Waypoints(),
		Valid:     o.route.IsValidRoute(),
	}
	v.Origin, _ = o.route.Origin()
	v.Destination, _ = o.route.Destination()
	return v
}

func (o *Orchestrator) StopList() []domain.StopListItem {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.StopListItem, len(o.list))
	copy(out, o.list)
	return out
}

func (o *Orchestrator) ItineraryText() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.itineraryText
}

// Places returns the catalogue the orchestrator was built with, by name.
func (o *Orchestrator) Places() []domain.Place {
	out := make([]domain.Place, 0, len(o.places))
	for _, p := range o.places {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Place) int { return strings.Compare(a.Name, b.Name) })
	return out
}
