package domain

import (
	"fmt"
	"math"
)

type TravelMode string

const TravelModeWalking TravelMode = "WALKING"

// The payload handed to a directions provider.
type DirectionsRequest struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Waypoints   []Waypoint `json:"waypoints"`
	TravelMode  TravelMode `json:"travel_mode"`
}

// Stops lists origin, waypoint locations and destination in travel order.
func (r DirectionsRequest) Stops() []string {
	out := make([]string, 0, 2+len(r.Waypoints))
	out = append(out, r.Origin)
	for _, w := range r.Waypoints {
		out = append(out, w.Location)
	}
	out = append(out, r.Destination)
	return out
}

// Human readable distance as reported by the provider, plus the raw value.
type Distance struct {
	Text   string `json:"text"`
	Meters int    `json:"meters"`
}

type Duration struct {
	Text    string `json:"text"`
	Seconds int    `json:"seconds"`
}

// A single instruction within a leg, e.g. "Turn left onto Jayhawk Blvd".
type Step struct {
	Instructions string        `json:"instructions"`
	Distance     Distance      `json:"distance"`
	Duration     Duration      `json:"duration"`
	Path         []Coordinates `json:"path,omitempty"`
}

// The part of an itinerary between two consecutive stops.
type Leg struct {
	StartAddress  string      `json:"start_address"`
	EndAddress    string      `json:"end_address"`
	StartLocation Coordinates `json:"start_location"`
	EndLocation   Coordinates `json:"end_location"`
	Distance      Distance    `json:"distance"`
	Duration      Duration    `json:"duration"`
	Steps         []Step      `json:"steps"`
}

// The provider's decomposition of a route into legs and per-leg steps.
// There is one leg per pair of consecutive stops.
type Itinerary struct {
	Legs []Leg `json:"legs"`
}

func (it *Itinerary) TotalDistanceMeters() int {
	total := 0
	for _, l := range it.Legs {
		total += l.Distance.Meters
	}
	return total
}

func (it *Itinerary) TotalDurationSeconds() int {
	total := 0
	for _, l := range it.Legs {
		total += l.Duration.Seconds
	}
	return total
}

// NewDistance formats meters the way the map providers display them.
func NewDistance(meters int) Distance {
	return Distance{Text: formatMeters(meters), Meters: meters}
}

func NewDuration(seconds int) Duration {
	return Duration{Text: formatSeconds(seconds), Seconds: seconds}
}

func formatMeters(m int) string {
	if m < 1000 {
		return fmt.Sprintf("%d m", m)
	}
	return fmt.Sprintf("%.1f km", float64(m)/1000)
}

func formatSeconds(s int) string {
	mins := int(math.Round(float64(s) / 60))
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		if mins == 1 {
			return "1 min"
		}
		return fmt.Sprintf("%d mins", mins)
	}

	hours := mins / 60
	rest := mins % 60
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	if rest == 0 {
		return fmt.Sprintf("%d %s", hours, unit)
	}
	return fmt.Sprintf("%d %s %d mins", hours, unit, rest)
}
