package domain

// Represents a catalogued campus point of interest.
// Name is unique within the catalogue and doubles as the stop identifier;
// Title is the HTML shown in the marker's info window.
type Place struct {
	Name  string
	Title string
	Lat   float64
	Lng   float64
}

func (p Place) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}

// Marker returns the placement request the map renderer needs for this place.
func (p Place) Marker() Marker {
	return Marker{Lat: p.Lat, Lng: p.Lng, Title: p.Title, Name: p.Name}
}

type Marker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
	Name  string  `json:"name"`
}

// Label shown on screen for a stop added from the user's GPS position.
const CurrentLocationLabel = "Current Location"

// One entry of the on-screen ordered stop list.
type StopListItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
