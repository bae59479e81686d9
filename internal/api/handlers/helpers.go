package handlers

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"campus-route-service/internal/sessions"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *domain.ProviderError
	var ge *domain.GeolocationError

	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrUnknownPlace), errors.Is(err, domain.ErrPlaceNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptySearch):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidRoute):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &ge):
		writeError(w, r, http.StatusUnprocessableEntity, ge.Error())
	case errors.As(err, &pe):
		writeJSON(w, r, http.StatusBadGateway, map[string]string{
			"error":  "Directions request failed due to " + pe.Status,
			"status": pe.Status,
		})
	default:
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
