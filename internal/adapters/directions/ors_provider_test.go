package directions

import (
	"campus-route-service/internal/domain"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orsTwoLegResponse = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {
      "segments": [
        {"distance": 400.2, "duration": 288.1, "steps": [
          {"distance": 300, "duration": 216, "instruction": "Head east on Jayhawk Boulevard", "way_points": [0, 1]},
          {"distance": 100.2, "duration": 72.1, "instruction": "Arrive at your destination, on the left", "way_points": [1, 2]}
        ]},
        {"distance": 950, "duration": 684, "steps": [
          {"distance": 950, "duration": 684, "instruction": "Head south on Naismith Drive", "way_points": [2, 3]}
        ]}
      ]
    },
    "geometry": {"type": "LineString", "coordinates": [[-95.248, 38.9575], [-95.246, 38.958], [-95.25, 38.96], [-95.2525, 38.9543]]}
  }]
}`

type memGeocodeCache struct {
	mu   sync.Mutex
	data map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if v, ok := c.data[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range results {
		c.data[k] = v
	}
	return nil
}

type orsStub struct {
	mu             sync.Mutex
	geocodeCalls   int
	geocodeTexts   []string
	geocodeFailFor int // first N geocode calls answer 503
	geocodeEmpty   bool
	directionsCode int
	directionsBody directionsRequest
	directionsHits int
}

func (s *orsStub) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/geocode/search":
		s.geocodeCalls++
		if s.geocodeCalls <= s.geocodeFailFor {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		s.geocodeTexts = append(s.geocodeTexts, r.URL.Query().Get("text"))
		if s.geocodeEmpty {
			_, _ = w.Write([]byte(`{"features": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-95.2525, 38.9543]}}]}`))

	case "/v2/directions/foot-walking/geojson":
		s.directionsHits++
		_ = json.NewDecoder(r.Body).Decode(&s.directionsBody)
		if s.directionsCode != 0 {
			w.WriteHeader(s.directionsCode)
			_, _ = w.Write([]byte(`{"error": {"code": 2010, "message": "Could not find routable point"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(orsTwoLegResponse))

	default:
		http.NotFound(w, r)
	}
}

func newORSTestProvider(t *testing.T, stub *orsStub, cache GeocodeCache) *ORSProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	t.Cleanup(srv.Close)

	opts := []ORSOption{
		WithORSBaseURL(srv.URL),
		WithCatalogue([]domain.Place{{Name: "Watson Library", Lat: 38.9575, Lng: -95.248}}),
		WithFocusPoint(domain.Coordinates{Lat: 38.957235, Lng: -95.248962}),
		withRetryInterval(time.Millisecond),
	}
	if cache != nil {
		opts = append(opts, WithGeocodeCache(cache))
	}

	p, err := NewORSProvider("test-key", opts...)
	require.NoError(t, err)
	return p
}

func threeStopRequest() domain.DirectionsRequest {
	return domain.DirectionsRequest{
		Origin:      "Watson Library",
		Waypoints:   []domain.Waypoint{{Location: "38.96, -95.25", Stopover: true}},
		Destination: "Allen  Fieldhouse",
		TravelMode:  domain.TravelModeWalking,
	}
}

func TestORSProviderComputeRoute(t *testing.T) {
	stub := &orsStub{}
	cache := &memGeocodeCache{data: map[string]domain.Coordinates{}}
	p := newORSTestProvider(t, stub, cache)

	it, err := p.ComputeRoute(context.Background(), threeStopRequest())
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{-95.248, 38.9575}, {-95.25, 38.96}, {-95.2525, 38.9543}}, stub.directionsBody.Coordinates)
	assert.True(t, stub.directionsBody.Instructions)
	assert.Equal(t, []string{"Allen Fieldhouse"}, stub.geocodeTexts)

	require.Len(t, it.Legs, 2)
	first := it.Legs[0]
	assert.Equal(t, "Watson Library", first.StartAddress)
	assert.Equal(t, "38.96, -95.25", first.EndAddress)
	assert.Equal(t, 400, first.Distance.Meters)
	assert.Equal(t, "400 m", first.Distance.Text)
	assert.Equal(t, 288, first.Duration.Seconds)
	require.Len(t, first.Steps, 2)
	assert.Equal(t, "Head east on Jayhawk Boulevard", first.Steps[0].Instructions)
	assert.Equal(t, []domain.Coordinates{{Lat: 38.9575, Lng: -95.248}, {Lat: 38.958, Lng: -95.246}}, first.Steps[0].Path)

	second := it.Legs[1]
	assert.Equal(t, "Allen  Fieldhouse", second.EndAddress)
	assert.Equal(t, domain.Coordinates{Lat: 38.9543, Lng: -95.2525}, second.EndLocation)

	// the geocoded stop is now cached
	_, err = p.ComputeRoute(context.Background(), threeStopRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, stub.geocodeCalls)
	assert.Equal(t, 2, stub.directionsHits)
}

func TestORSProviderGeocodeRetriesTransientFailures(t *testing.T) {
	stub := &orsStub{geocodeFailFor: 2}
	p := newORSTestProvider(t, stub, nil)

	_, err := p.ComputeRoute(context.Background(), threeStopRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, stub.geocodeCalls)
}

func TestORSProviderUnknownPlace(t *testing.T) {
	stub := &orsStub{geocodeEmpty: true}
	p := newORSTestProvider(t, stub, nil)

	_, err := p.ComputeRoute(context.Background(), threeStopRequest())

	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "NOT_FOUND", pe.Status)
	assert.Equal(t, 0, stub.directionsHits)
}

func TestORSProviderDirectionsFailure(t *testing.T) {
	stub := &orsStub{directionsCode: http.StatusNotFound}
	p := newORSTestProvider(t, stub, nil)

	_, err := p.ComputeRoute(context.Background(), domain.DirectionsRequest{
		Origin:      "Watson Library",
		Destination: "38.96, -95.25",
		TravelMode:  domain.TravelModeWalking,
	})

	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "NOT_FOUND", pe.Status)
	assert.Equal(t, 1, stub.directionsHits, "directions calls are not retried")
	assert.Equal(t, 0, stub.geocodeCalls)
}

func TestORSStatus(t *testing.T) {
	assert.Equal(t, "INVALID_REQUEST", orsStatus(&httpStatusError{Code: 400}))
	assert.Equal(t, "REQUEST_DENIED", orsStatus(&httpStatusError{Code: 403}))
	assert.Equal(t, "OVER_QUERY_LIMIT", orsStatus(&httpStatusError{Code: 429}))
	assert.Equal(t, "UNKNOWN_ERROR", orsStatus(&httpStatusError{Code: 502}))
	assert.Equal(t, "REQUEST_CANCELLED", orsStatus(context.DeadlineExceeded))
}

func TestNewORSProviderRequiresKey(t *testing.T) {
	_, err := NewORSProvider("")
	assert.Error(t, err)
}
