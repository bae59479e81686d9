package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoute           = errors.New("route must have at least two points")
	ErrUnknownPlace           = errors.New("unknown place")
	ErrEmptySearch            = errors.New("search text is empty")
	ErrGeolocationUnavailable = errors.New("geolocation services were not allowed")
	ErrPlaceNotFound          = errors.New("place not found")
)

// ProviderError reports a directions computation that did not succeed.
// Status is the provider's opaque status code (e.g. "ZERO_RESULTS").
type ProviderError struct {
	Status string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directions error: %s: %v", e.Status, e.Err)
	}
	return "directions error: " + e.Status
}

func (e *ProviderError) Unwrap() error { return e.Err }

// GeolocationError carries the human readable message from a failed
// position lookup.
type GeolocationError struct {
	Message string
}

func (e *GeolocationError) Error() string {
	return "geolocation: " + e.Message
}
