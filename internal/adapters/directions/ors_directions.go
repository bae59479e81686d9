package directions

import (
	"bytes"
	"campus-route-service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
	Language     string      `json:"language"`
}

// Properties of the route feature in an ORS GeoJSON directions response.
type orsRouteProperties struct {
	Segments []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Steps    []struct {
			Distance    float64 `json:"distance"`
			Duration    float64 `json:"duration"`
			Instruction string  `json:"instruction"`
			WayPoints   []int   `json:"way_points"`
		} `json:"steps"`
	} `json:"segments"`
}

// fetchDirections requests a walking route through coords in order using the
// ORS GeoJSON directions endpoint. It is not retried.
func (o *ORSProvider) fetchDirections(
	ctx context.Context,
	stops []string,
	coords []domain.Coordinates,
) (*domain.Itinerary, error) {
	if len(stops) != len(coords) {
		return nil, errors.New("stops and coords are expected to have the same length")
	}
	if len(coords) < 2 {
		return nil, errors.New("at least two coordinates are required")
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	body := directionsRequest{
		Coordinates:  make([][]float64, 0, len(coords)),
		Instructions: true,
		Units:        "m",
		Language:     "en",
	}
	for _, c := range coords {
		body.Coordinates = append(body.Coordinates, c.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directions response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, &domain.ProviderError{Status: "ZERO_RESULTS"}
	}

	feature := fc.Features[0]
	line, ok := feature.Geometry.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected route geometry %T", feature.Geometry)
	}

	var props orsRouteProperties
	b, err := json.Marshal(feature.Properties)
	if err != nil {
		return nil, fmt.Errorf("encode route properties: %w", err)
	}
	if err := json.Unmarshal(b, &props); err != nil {
		return nil, fmt.Errorf("decode route properties: %w", err)
	}

	if len(props.Segments) != len(coords)-1 {
		return nil, fmt.Errorf(
			"expected %d segments; got %d",
			len(coords)-1, len(props.Segments),
		)
	}

	it := &domain.Itinerary{Legs: make([]domain.Leg, 0, len(props.Segments))}
	for i, seg := range props.Segments {
		// ORS returns float metrics; round to nearest integer for domain consistency.
		leg := domain.Leg{
			StartAddress:  stops[i],
			EndAddress:    stops[i+1],
			StartLocation: coords[i],
			EndLocation:   coords[i+1],
			Distance:      domain.NewDistance(int(math.Round(seg.Distance))),
			Duration:      domain.NewDuration(int(math.Round(seg.Duration))),
			Steps:         make([]domain.Step, 0, len(seg.Steps)),
		}

		for _, s := range seg.Steps {
			leg.Steps = append(leg.Steps, domain.Step{
				Instructions: s.Instruction,
				Distance:     domain.NewDistance(int(math.Round(s.Distance))),
				Duration:     domain.NewDuration(int(math.Round(s.Duration))),
				Path:         slicePath(line, s.WayPoints),
			})
		}

		it.Legs = append(it.Legs, leg)
	}

	return it, nil
}

// slicePath cuts the [from, to] way point range out of the route geometry.
func slicePath(line orb.LineString, wayPoints []int) []domain.Coordinates {
	if len(wayPoints) != 2 {
		return nil
	}
	from, to := wayPoints[0], wayPoints[1]
	if from < 0 || to < from || to >= len(line) {
		return nil
	}

	out := make([]domain.Coordinates, 0, to-from+1)
	for _, p := range line[from : to+1] {
		out = append(out, domain.Coordinates{Lat: p.Lat(), Lng: p.Lon()})
	}
	return out
}
