package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for GeoJSON and ORS compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// FormatLatLng renders the stop identifier used for a GPS position,
// e.g. "38.957235, -95.248962". Each float uses its shortest representation.
func FormatLatLng(c Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// ParseLatLng reverses FormatLatLng. It accepts any whitespace around the comma.
func ParseLatLng(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("parse lat/lng %q: expected two comma separated values", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse lat/lng %q: latitude: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse lat/lng %q: longitude: %w", s, err)
	}

	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("parse lat/lng %q: out of range", s)
	}
	return c, nil
}
