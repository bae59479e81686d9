package api

import (
	"campus-route-service/internal/api/handlers"
	"campus-route-service/internal/ports"
	"campus-route-service/internal/sessions"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(repo ports.PlaceRepository, store *sessions.Store) http.Handler {
	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{Repo: repo}
	sessionHandler := &handlers.SessionHandler{Store: store}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /places", placeHandler.List)

	mux.HandleFunc("POST /sessions", sessionHandler.Create)
	mux.HandleFunc("GET /sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("DELETE /sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("POST /sessions/{id}/stops", sessionHandler.AddStop)
	mux.HandleFunc("POST /sessions/{id}/current-location", sessionHandler.AddCurrentLocation)
	mux.HandleFunc("POST /sessions/{id}/calculate", sessionHandler.Calculate)
	mux.HandleFunc("POST /sessions/{id}/clear", sessionHandler.Clear)
	mux.HandleFunc("GET /sessions/{id}/map", sessionHandler.Map)

	return requestIDMiddleware(loggingMiddleware(mux))
}
