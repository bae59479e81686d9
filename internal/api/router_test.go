package api

import (
	"bytes"
	"campus-route-service/internal/adapters/directions"
	"campus-route-service/internal/adapters/render"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/services"
	"campus-route-service/internal/sessions"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlaces = []domain.Place{
	{Name: "Kansas Union", Title: "<h3>Kansas Union</h3>", Lat: 38.95913, Lng: -95.24366},
	{Name: "Watson Library", Title: "<h3>Watson Library</h3>", Lat: 38.95756, Lng: -95.24596},
}

type memPlaces struct{}

func (memPlaces) ListPlaces(context.Context) ([]domain.Place, error) { return testPlaces, nil }

func (memPlaces) FindPlace(_ context.Context, name string) (domain.Place, error) {
	for _, p := range testPlaces {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Place{}, domain.ErrPlaceNotFound
}

func newTestServer(t *testing.T, routes ...directions.MockRoute) *httptest.Server {
	t.Helper()

	provider := directions.NewMockDirectionsProvider(testPlaces, routes...)
	store := sessions.NewStore(func() (*services.Orchestrator, *render.GeoJSONRenderer, error) {
		r := render.NewGeoJSONRenderer(render.View{Center: domain.Coordinates{Lat: 38.957235, Lng: -95.248962}, Zoom: 16})
		o, err := services.NewOrchestrator(testPlaces, provider, r)
		return o, r, err
	})

	srv := httptest.NewServer(NewRouter(memPlaces{}, store))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	var created struct {
		ID      string          `json:"id"`
		Markers []domain.Marker `json:"markers"`
	}
	res := do(t, http.MethodPost, srv.URL+"/sessions", nil, &created)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Markers, 2)
	return srv.URL + "/sessions/" + created.ID
}

func TestHealthAndPlaces(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]string
	res := do(t, http.MethodGet, srv.URL+"/health", nil, &health)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	var places struct {
		Places []struct {
			Name string `json:"name"`
		} `json:"places"`
	}
	res = do(t, http.MethodGet, srv.URL+"/places", nil, &places)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, places.Places, 2)
	assert.Equal(t, "Kansas Union", places.Places[0].Name)

	res = do(t, http.MethodPost, srv.URL+"/health", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestBuildAndCalculateRoute(t *testing.T) {
	srv := newTestServer(t)
	base := createSession(t, srv)

	var view struct {
		Route struct {
			Stops       []string `json:"stops"`
			Origin      string   `json:"origin"`
			Destination string   `json:"destination"`
			Valid       bool     `json:"valid"`
		} `json:"route"`
		StopList []domain.StopListItem `json:"stop_list"`
	}

	res := do(t, http.MethodPost, base+"/stops", map[string]string{"place": "Watson Library"}, &view)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, view.Route.Valid)

	var failure map[string]string
	res = do(t, http.MethodPost, base+"/calculate", nil, &failure)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, domain.ErrInvalidRoute.Error(), failure["error"])

	res = do(t, http.MethodPost, base+"/current-location", map[string]float64{"lat": 38.957235, "lng": -95.248962}, &view)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, http.MethodPost, base+"/stops", map[string]string{"place": "Kansas Union"}, &view)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, []string{"Watson Library", "38.957235, -95.248962", "Kansas Union"}, view.Route.Stops)
	assert.Equal(t, "Watson Library", view.Route.Origin)
	assert.Equal(t, "Kansas Union", view.Route.Destination)
	assert.Equal(t, domain.CurrentLocationLabel, view.StopList[1].Label)

	var calc struct {
		Itinerary     domain.Itinerary `json:"itinerary"`
		ItineraryText string           `json:"itinerary_text"`
	}
	res = do(t, http.MethodPost, base+"/calculate", nil, &calc)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, calc.Itinerary.Legs, 2)
	assert.Contains(t, calc.ItineraryText, "Point 1 to point 2:\n")
	assert.Contains(t, calc.ItineraryText, "Point 2 to point 3:\n")

	var model struct {
		GeoJSON struct {
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"geojson"`
	}
	res = do(t, http.MethodGet, base+"/map", nil, &model)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, model.GeoJSON.Features, 4)

	var cleared struct {
		Route struct {
			Stops []string `json:"stops"`
		} `json:"route"`
		ItineraryText string `json:"itinerary_text"`
	}
	res = do(t, http.MethodPost, base+"/clear", nil, &cleared)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, cleared.Route.Stops)
	assert.Empty(t, cleared.ItineraryText)

	res = do(t, http.MethodGet, base+"/map", nil, &model)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, model.GeoJSON.Features, 2)
}

func TestProviderFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t, directions.MockRoute{
		Stops:  []string{"Watson Library", "Kansas Union"},
		Status: "ZERO_RESULTS",
	})
	base := createSession(t, srv)

	do(t, http.MethodPost, base+"/stops", map[string]string{"place": "Watson Library"}, nil)
	do(t, http.MethodPost, base+"/stops", map[string]string{"place": "Kansas Union"}, nil)

	var failure map[string]string
	res := do(t, http.MethodPost, base+"/calculate", nil, &failure)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "ZERO_RESULTS", failure["status"])
	assert.Equal(t, "Directions request failed due to ZERO_RESULTS", failure["error"])

	var view struct {
		Route struct {
			Stops []string `json:"stops"`
		} `json:"route"`
	}
	do(t, http.MethodGet, base, nil, &view)
	assert.Len(t, view.Route.Stops, 2)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t)
	base := createSession(t, srv)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown place", "/stops", map[string]string{"place": "Narnia"}, http.StatusNotFound},
		{"empty search", "/stops", map[string]string{"query": "   "}, http.StatusBadRequest},
		{"both fields", "/stops", map[string]string{"place": "Kansas Union", "query": "x"}, http.StatusBadRequest},
		{"neither field", "/stops", map[string]string{}, http.StatusBadRequest},
		{"unknown field", "/stops", map[string]string{"name": "x"}, http.StatusBadRequest},
		{"two objects", "/stops", `{"query":"a"}{"query":"b"}`, http.StatusBadRequest},
		{"lat only", "/current-location", map[string]float64{"lat": 1}, http.StatusBadRequest},
		{"denied", "/current-location", map[string]string{"error": "User denied Geolocation"}, http.StatusUnprocessableEntity},
		{"no position", "/current-location", map[string]string{}, http.StatusUnprocessableEntity},
		{"out of range", "/current-location", map[string]float64{"lat": 100, "lng": 0}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, http.MethodPost, base+tt.path, tt.body, nil)
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}

	var view struct {
		Route struct {
			Stops []string `json:"stops"`
		} `json:"route"`
	}
	do(t, http.MethodGet, base, nil, &view)
	assert.Empty(t, view.Route.Stops)
}

func TestSearchStopAndDelete(t *testing.T) {
	srv := newTestServer(t)
	base := createSession(t, srv)

	var view struct {
		StopList []domain.StopListItem `json:"stop_list"`
	}
	res := do(t, http.MethodPost, base+"/stops", map[string]string{"query": "Lawrence Public Library"}, &view)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []domain.StopListItem{{ID: "Lawrence Public Library", Label: "Lawrence Public Library"}}, view.StopList)

	res = do(t, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = do(t, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res = do(t, http.MethodPost, srv.URL+"/sessions/missing/calculate", nil, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
