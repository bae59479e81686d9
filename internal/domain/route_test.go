package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoute(stops ...string) *Route {
	r := NewRoute()
	for _, s := range stops {
		r.AddToRoute(s, true)
	}
	return r
}

func TestRouteSingleStopHasNoDestination(t *testing.T) {
	r := buildRoute("Library")

	assert.False(t, r.IsValidRoute())

	origin, ok := r.Origin()
	require.True(t, ok)
	assert.Equal(t, "Library", origin)

	_, ok = r.Destination()
	assert.False(t, ok)
	assert.Empty(t, r.Waypoints())
}

func TestRouteTwoStops(t *testing.T) {
	r := buildRoute("Library", "Union")

	assert.True(t, r.IsValidRoute())

	origin, _ := r.Origin()
	destination, ok := r.Destination()
	require.True(t, ok)
	assert.Equal(t, "Library", origin)
	assert.Equal(t, "Union", destination)
	assert.Equal(t, []Waypoint{}, r.Waypoints())
}

func TestRouteThreeStops(t *testing.T) {
	r := buildRoute("Library", "Stadium", "Union")

	origin, _ := r.Origin()
	destination, _ := r.Destination()
	assert.Equal(t, "Library", origin)
	assert.Equal(t, "Union", destination)
	assert.Equal(t, []Waypoint{{Location: "Stadium", Stopover: true}}, r.Waypoints())
}

func TestRouteEmpty(t *testing.T) {
	r := NewRoute()

	assert.False(t, r.IsValidRoute())
	_, ok := r.Origin()
	assert.False(t, ok)
	_, ok = r.Destination()
	assert.False(t, ok)
	assert.Empty(t, r.Waypoints())
	assert.Equal(t, 0, r.Len())
}

func TestRouteViewsForEveryLength(t *testing.T) {
	for n := 0; n <= 8; n++ {
		t.Run(fmt.Sprintf("adds=%d", n), func(t *testing.T) {
			added := make([]string, 0, n)
			r := NewRoute()
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("stop-%d", i)
				// alternate the flag; it must not change anything
				r.AddToRoute(id, i%2 == 0)
				added = append(added, id)
			}

			assert.Equal(t, n >= 2, r.IsValidRoute())
			assert.Equal(t, added, r.Stops())

			if n >= 1 {
				origin, ok := r.Origin()
				require.True(t, ok)
				assert.Equal(t, added[0], origin)
			}
			if n >= 2 {
				destination, ok := r.Destination()
				require.True(t, ok)
				assert.Equal(t, added[n-1], destination)
			}

			wps := r.Waypoints()
			assert.Len(t, wps, max(0, n-2))
			for i, w := range wps {
				assert.Equal(t, added[i+1], w.Location)
				assert.True(t, w.Stopover)
			}
		})
	}
}

func TestRouteKeepsDuplicates(t *testing.T) {
	r := buildRoute("Union")
	before := r.Len()

	r.AddToRoute("Library", true)
	r.AddToRoute("Library", true)

	assert.Equal(t, before+2, r.Len())
	assert.Equal(t, []string{"Union", "Library", "Library"}, r.Stops())
	assert.Equal(t, []Waypoint{{Location: "Library", Stopover: true}}, r.Waypoints())
}

func TestRouteStopsIsACopy(t *testing.T) {
	r := buildRoute("A", "B")

	stops := r.Stops()
	stops[0] = "mutated"

	origin, _ := r.Origin()
	assert.Equal(t, "A", origin)
}

func TestRouteDirectionsRequest(t *testing.T) {
	_, err := buildRoute("Library").DirectionsRequest()
	require.ErrorIs(t, err, ErrInvalidRoute)

	r := buildRoute("Library", "38.957235, -95.248962", "Union")
	req, err := r.DirectionsRequest()
	require.NoError(t, err)

	assert.Equal(t, "Library", req.Origin)
	assert.Equal(t, "Union", req.Destination)
	assert.Equal(t, TravelModeWalking, req.TravelMode)
	assert.Equal(t, []Waypoint{{Location: "38.957235, -95.248962", Stopover: true}}, req.Waypoints)
	assert.Equal(t, []string{"Library", "38.957235, -95.248962", "Union"}, req.Stops())

	// later additions do not leak into an earlier snapshot
	r.AddToRoute("Stadium", true)
	assert.Equal(t, "Union", req.Destination)
	assert.Len(t, req.Waypoints, 1)
}
