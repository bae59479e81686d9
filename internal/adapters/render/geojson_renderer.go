package render

import (
	"campus-route-service/internal/domain"
	"encoding/json"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Initial map viewport.
type View struct {
	Center domain.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

// GeoJSONRenderer implements ports.MapRenderer by keeping a GeoJSON model of
// what the browser map should display: one Point per marker and, once a
// route is rendered, one LineString per leg.
//
// It is safe for concurrent use; the HTTP layer reads it while the session's
// orchestrator writes to it.
type GeoJSONRenderer struct {
	view View

	mu        sync.RWMutex
	markers   []domain.Marker
	itinerary *domain.Itinerary
}

func NewGeoJSONRenderer(view View) *GeoJSONRenderer {
	return &GeoJSONRenderer{view: view}
}

func (r *GeoJSONRenderer) PlaceMarker(m domain.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, m)
}

func (r *GeoJSONRenderer) Render(it *domain.Itinerary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itinerary = it
}

func (r *GeoJSONRenderer) ClearRoute() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itinerary = nil
}

// HasRoute reports whether an itinerary is currently drawn.
func (r *GeoJSONRenderer) HasRoute() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.itinerary != nil
}

func (r *GeoJSONRenderer) View() View { return r.view }

// FeatureCollection builds the current model. Markers come first, then legs
// in travel order.
func (r *GeoJSONRenderer) FeatureCollection() *geojson.FeatureCollection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fc := geojson.NewFeatureCollection()

	for _, m := range r.markers {
		f := geojson.NewFeature(orb.Point{m.Lng, m.Lat})
		f.Properties["kind"] = "marker"
		f.Properties["name"] = m.Name
		f.Properties["title"] = m.Title
		fc.Append(f)
	}

	if r.itinerary == nil {
		return fc
	}

	for i, leg := range r.itinerary.Legs {
		f := geojson.NewFeature(legLine(leg))
		f.Properties["kind"] = "leg"
		f.Properties["leg"] = i + 1
		f.Properties["distance"] = leg.Distance.Text
		f.Properties["duration"] = leg.Duration.Text
		f.Properties["start_address"] = leg.StartAddress
		f.Properties["end_address"] = leg.EndAddress
		fc.Append(f)
	}

	return fc
}

// legLine joins the step paths of a leg. Legs without step geometry fall
// back to a straight segment between their endpoints.
func legLine(leg domain.Leg) orb.LineString {
	line := orb.LineString{}
	for _, s := range leg.Steps {
		for _, c := range s.Path {
			p := orb.Point{c.Lng, c.Lat}
			if n := len(line); n > 0 && line[n-1].Equal(p) {
				continue
			}
			line = append(line, p)
		}
	}

	if len(line) < 2 {
		line = orb.LineString{
			{leg.StartLocation.Lng, leg.StartLocation.Lat},
			{leg.EndLocation.Lng, leg.EndLocation.Lat},
		}
	}
	return line
}

type mapModel struct {
	View    View                       `json:"view"`
	GeoJSON *geojson.FeatureCollection `json:"geojson"`
}

func (r *GeoJSONRenderer) MarshalJSON() ([]byte, error) {
	return json.Marshal(mapModel{View: r.view, GeoJSON: r.FeatureCollection()})
}
