package handlers

import (
	"campus-route-service/internal/adapters/geolocation"
	"campus-route-service/internal/api/dto"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/sessions"
	"net/http"
)

// SessionHandler serves one route-building session per browser page.
type SessionHandler struct {
	Store *sessions.Store
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *sessions.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:            sess.ID,
		Route:         sess.Orchestrator.Route(),
		StopList:      sess.Orchestrator.StopList(),
		ItineraryText: sess.Orchestrator.ItineraryText(),
	}
}

// Create starts a session, as loading the page does.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Store.Create()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	places := sess.Orchestrator.Places()
	markers := make([]domain.Marker, 0, len(places))
	for _, p := range places {
		markers = append(markers, p.Marker())
	}

	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{
		ID:      sess.ID,
		View:    sess.Renderer.View(),
		Markers: markers,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddStop appends a catalogued place or the raw search text.
func (h *SessionHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.AddStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if (req.Place == nil) == (req.Query == nil) {
		writeError(w, r, http.StatusBadRequest, "exactly one of place or query is required")
		return
	}

	var err error
	if req.Place != nil {
		err = sess.Orchestrator.AddPlace(*req.Place)
	} else {
		err = sess.Orchestrator.AddSearch(*req.Query)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse(sess))
}

// AddCurrentLocation takes the position (or failure) the browser's
// geolocation API reported.
func (h *SessionHandler) AddCurrentLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.CurrentLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be given together")
		return
	}

	src := geolocation.Reported{Message: req.Error}
	if req.Lat != nil {
		src.Position = &domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}
	}

	if err := sess.Orchestrator.AddCurrentLocation(r.Context(), src); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	out, err := sess.Orchestrator.Calculate(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CalculateResponse{
		Request:              out.Request,
		Itinerary:            out.Itinerary,
		ItineraryText:        out.Text,
		TotalDistanceMeters:  out.Itinerary.TotalDistanceMeters(),
		TotalDurationSeconds: out.Itinerary.TotalDurationSeconds(),
	})
}

// Clear starts over with an empty route, as reloading the page does.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Orchestrator.Clear()
	writeJSON(w, r, http.StatusOK, sessionResponse(sess))
}

// Map returns the GeoJSON model the browser map draws.
func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Renderer)
}
