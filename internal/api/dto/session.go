package dto

import (
	"campus-route-service/internal/adapters/render"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/services"
)

type CreateSessionResponse struct {
	ID      string          `json:"id"`
	View    render.View     `json:"view"`
	Markers []domain.Marker `json:"markers"`
}

type SessionResponse struct {
	ID            string                `json:"id"`
	Route         services.RouteView    `json:"route"`
	StopList      []domain.StopListItem `json:"stop_list"`
	ItineraryText string                `json:"itinerary_text"`
}

// Exactly one of Place and Query must be set.
type AddStopRequest struct {
	Place *string `json:"place"`
	Query *string `json:"query"`
}

// Either a position or the error message the browser reported.
type CurrentLocationRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

type CalculateResponse struct {
	Request              domain.DirectionsRequest `json:"request"`
	Itinerary            *domain.Itinerary        `json:"itinerary"`
	ItineraryText        string                   `json:"itinerary_text"`
	TotalDistanceMeters  int                      `json:"total_distance_meters"`
	TotalDurationSeconds int                      `json:"total_duration_seconds"`
}
