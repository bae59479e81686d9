package services

import (
	"campus-route-service/internal/domain"
	"fmt"
	"strings"
)

// FormatItinerary flattens an itinerary into the text shown next to the map.
//
// Each leg gets a "Point i to point i+1:" header, its distance and duration,
// then one "<instructions> in <distance>" line per step.
func FormatItinerary(it *domain.Itinerary) string {
	if it == nil {
		return ""
	}

	var b strings.Builder
	for i, leg := range it.Legs {
		fmt.Fprintf(&b, "Point %d to point %d:\n", i+1, i+2)
		fmt.Fprintf(&b, "Distance: %s\n", leg.Distance.Text)
		fmt.Fprintf(&b, "Duration: %s\n", leg.Duration.Text)

		for _, step := range leg.Steps {
			fmt.Fprintf(&b, "%s in %s\n", step.Instructions, step.Distance.Text)
		}
	}
	return b.String()
}
