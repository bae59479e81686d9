package ports

import "campus-route-service/internal/domain"

// Port: the map surface that draws markers and computed itineraries.
type MapRenderer interface {
	PlaceMarker(m domain.Marker)
	// Draw the itinerary, replacing any previously drawn one.
	Render(it *domain.Itinerary)
	ClearRoute()
}
