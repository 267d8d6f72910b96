package weather

import (
	"context"
)

// Provider abstracts a current-weather data source (e.g. OpenWeatherMap).
type Provider interface {
	Name() string

	// Current performs exactly one lookup for the given city. Implementations
	// make a single network round trip per call and honor ctx cancellation.
	// Failures wrap ErrCityNotFound, ErrUnauthorized, or ErrUnavailable.
	Current(ctx context.Context, city string) (Reading, error)
}
