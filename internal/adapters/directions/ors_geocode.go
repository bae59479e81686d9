package directions

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sourcegraph/conc/pool"
)

var errNoGeocodeResult = errors.New("no geocode results")

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

type geocodeHit struct {
	address string
	coords  domain.Coordinates
}

// geocodeMany resolves addresses using OpenRouteService (/geocode/search),
// a few at a time. Callers pass normalized, deduplicated addresses.
func (o *ORSProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	p := pool.NewWithResults[geocodeHit]().
		WithContext(ctx).
		WithMaxGoroutines(4).
		WithCancelOnError()

	for _, a := range addresses {
		p.Go(func(ctx context.Context) (geocodeHit, error) {
			c, err := o.geocodeOne(ctx, a)
			if err != nil {
				return geocodeHit{}, fmt.Errorf("geocode %q: %w", a, err)
			}
			return geocodeHit{address: a, coords: c}, nil
		})
	}

	hits, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Coordinates, len(hits))
	for _, h := range hits {
		out[h.address] = h.coords
	}
	return out, nil
}

func (o *ORSProvider) geocodeOne(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		if o.focus != nil {
			q.Set("focus.point.lat", strconv.FormatFloat(o.focus.Lat, 'f', -1, 64))
			q.Set("focus.point.lon", strconv.FormatFloat(o.focus.Lng, 'f', -1, 64))
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, errNoGeocodeResult
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, errors.New("invalid coordinate format")
	}

	// GeoJSON order is [lon, lat].
	return domain.Coordinates{Lat: coords[1], Lng: coords[0]}, nil
}
