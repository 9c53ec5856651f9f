package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinates is returned when lat/lon are not parseable floats.
	ErrInvalidCoordinates = errors.New("invalid lat/lon")

	// ErrMissingAPIKey is returned when a keyed provider is selected but its
	// credential is not configured.
	ErrMissingAPIKey = errors.New("api key is not configured")

	// ErrLocationNotFound is returned when the WillyWeather search resolves
	// no location for the coordinates.
	ErrLocationNotFound = errors.New("no location found for coordinates")

	// ErrUpstreamTimeout is returned when an upstream call exceeds the
	// configured request timeout.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)

// UnknownProviderError is returned when the requested provider name is not
// one of the configured adapters.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider '%s'", e.Name)
}

// UpstreamStatusError is returned when an upstream responds with a failure
// status code.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.Status)
}
