package directions

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// GeocodeCache stores address -> coordinate lookups between requests.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// ORSProvider implements DirectionsProvider using OpenRouteService.
//
// It coordinates:
//   - Stop resolution ("lat, lng" strings, catalogue places, geocoding)
//   - Persistent geocode caching
//   - A single directions call per request
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	retryInterval time.Duration
	places        map[string]domain.Coordinates
	geocodeCache  GeocodeCache
	focus         *domain.Coordinates
}

type ORSOption func(*ORSProvider)

func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithORSHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSProvider) { o.session = c }
}

func WithGeocodeCache(c GeocodeCache) ORSOption {
	return func(o *ORSProvider) { o.geocodeCache = c }
}

// WithCatalogue lets catalogued place names resolve without geocoding.
func WithCatalogue(places []domain.Place) ORSOption {
	return func(o *ORSProvider) {
		for _, p := range places {
			o.places[o.normalize(p.Name)] = p.Coordinates()
		}
	}
}

// WithFocusPoint biases geocoding results towards c (the campus).
func WithFocusPoint(c domain.Coordinates) ORSOption {
	return func(o *ORSProvider) { o.focus = &c }
}

func withRetryInterval(d time.Duration) ORSOption {
	return func(o *ORSProvider) { o.retryInterval = d }
}

func NewORSProvider(apiKey string, opts ...ORSOption) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       "https://api.openrouteservice.org",
		profile:       "foot-walking",
		retryInterval: 200 * time.Millisecond,
		places:        map[string]domain.Coordinates{},
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSProvider) ComputeRoute(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "ors.ComputeRoute")(&err)

	stops := req.Stops()
	coords, err := o.resolveStops(ctx, stops)
	if err != nil {
		status := orsStatus(err)
		if errors.Is(err, errNoGeocodeResult) {
			status = "NOT_FOUND"
		}
		return nil, &domain.ProviderError{Status: status, Err: err}
	}

	it, err := o.fetchDirections(ctx, stops, coords)
	if err != nil {
		var pe *domain.ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &domain.ProviderError{Status: orsStatus(err), Err: err}
	}

	return it, nil
}

// resolveStops returns one coordinate per stop, in order.
func (o *ORSProvider) resolveStops(ctx context.Context, stops []string) ([]domain.Coordinates, error) {
	resolved := make(map[string]domain.Coordinates, len(stops))
	seen := make(map[string]struct{}, len(stops))
	needed := make([]string, 0, len(stops))

	for _, s := range stops {
		norm := o.normalize(s)
		if norm == "" {
			return nil, fmt.Errorf("resolve stops: empty stop identifier")
		}

		if c, err := domain.ParseLatLng(norm); err == nil {
			resolved[norm] = c
			continue
		}
		if c, ok := o.places[norm]; ok {
			resolved[norm] = c
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		needed = append(needed, norm)
	}

	if len(needed) > 0 {
		found, err := o.geocode(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("resolve stops: %w", err)
		}
		for k, v := range found {
			resolved[k] = v
		}
	}

	out := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		c, ok := resolved[o.normalize(s)]
		if !ok {
			return nil, fmt.Errorf("resolve stops: missing coordinate for %q: %w", s, errNoGeocodeResult)
		}
		out = append(out, c)
	}
	return out, nil
}

// geocode resolves addresses via the cache first and ORS for the misses.
func (o *ORSProvider) geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	geocodeHits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		var err error
		geocodeHits, err = o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			// A broken cache only costs extra API calls.
			log.Warn().Err(err).Msg("geocode cache read failed")
			geocodeHits = map[string]domain.Coordinates{}
		}
	}

	geocodeMisses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := geocodeHits[a]; !ok {
			geocodeMisses = append(geocodeMisses, a)
		}
	}

	if len(geocodeMisses) == 0 {
		return geocodeHits, nil
	}

	fresh, err := o.geocodeMany(ctx, geocodeMisses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	out := make(map[string]domain.Coordinates, len(geocodeHits)+len(fresh))
	for k, v := range geocodeHits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}
