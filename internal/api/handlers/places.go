package handlers

import (
	"campus-route-service/internal/api/dto"
	"campus-route-service/internal/ports"
	"net/http"
)

// PlaceHandler exposes the read-only campus catalogue.
type PlaceHandler struct {
	Repo ports.PlaceRepository
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.Repo.ListPlaces(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListPlacesResponse{Places: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		res.Places = append(res.Places, dto.PlaceResponse{
			Name:  p.Name,
			Title: p.Title,
			Lat:   p.Lat,
			Lng:   p.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
