package dto

type PlaceResponse struct {
	Name  string  `json:"name"`
	Title string  `json:"title"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}
