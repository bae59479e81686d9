package domain

// A stop strictly between origin and destination.
// Stopover tells the provider the walker actually pauses there rather than
// merely passing near it.
type Waypoint struct {
	Location string `json:"location"`
	Stopover bool   `json:"stopover"`
}

// Represents the ordered walking route a user builds during a session.
//
// A Route only ever grows: stops are appended in the order they are added,
// duplicates are kept, and nothing is reordered. Resetting a route means
// discarding the instance and starting a new one.
type Route struct {
	stops []string
}

func NewRoute() *Route {
	return &Route{stops: []string{}}
}

// AddToRoute appends a stop identifier to the end of the route.
//
// isPlaceName separates catalogued or searched places from raw "lat, lng"
// strings for callers; both go through the same path and are stored as is.
func (r *Route) AddToRoute(identifier string, isPlaceName bool) {
	_ = isPlaceName
	r.stops = append(r.stops, identifier)
}

// A route can be submitted once it has an origin and a destination.
func (r *Route) IsValidRoute() bool {
	return len(r.stops) >= 2
}

func (r *Route) Len() int { return len(r.stops) }

// Origin returns the first stop added.
func (r *Route) Origin() (string, bool) {
	if len(r.stops) == 0 {
		return "", false
	}
	return r.stops[0], true
}

// Destination returns the most recently added stop, but only once there are
// at least two: a single stop is an origin with nowhere to go.
func (r *Route) Destination() (string, bool) {
	if len(r.stops) < 2 {
		return "", false
	}
	return r.stops[len(r.stops)-1], true
}

// Waypoints returns every stop between origin and destination, in order.
func (r *Route) Waypoints() []Waypoint {
	if len(r.stops) < 3 {
		return []Waypoint{}
	}

	inner := r.stops[1 : len(r.stops)-1]
	out := make([]Waypoint, 0, len(inner))
	for _, s := range inner {
		out = append(out, Waypoint{Location: s, Stopover: true})
	}
	return out
}

// Stops returns a copy of the stop identifiers in insertion order.
func (r *Route) Stops() []string {
	out := make([]string, len(r.stops))
	copy(out, r.stops)
	return out
}

// DirectionsRequest snapshots the route into the shape a DirectionsProvider
// consumes. The snapshot does not alias the route's storage.
func (r *Route) DirectionsRequest() (DirectionsRequest, error) {
	if !r.IsValidRoute() {
		return DirectionsRequest{}, ErrInvalidRoute
	}

	origin, _ := r.Origin()
	destination, _ := r.Destination()

	return DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Waypoints:   r.Waypoints(),
		TravelMode:  TravelModeWalking,
	}, nil
}
