package weather

import "errors"

// Sentinel errors classifying every way a provider lookup can fail. Handlers
// match on these with errors.Is; anything a provider returns wraps one of them.
var (
	// ErrCityNotFound means the provider matched no city for the query.
	ErrCityNotFound = errors.New("city not found")

	// ErrUnauthorized means the provider rejected the API credential.
	ErrUnauthorized = errors.New("api key rejected")

	// ErrUnavailable covers transport failures, malformed responses, and any
	// other provider-side status we cannot classify more precisely.
	ErrUnavailable = errors.New("weather data unavailable")
)

// UserMessage maps a provider error to the message shown on the result page.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrCityNotFound):
		return "City not found! Try another city."
	case errors.Is(err, ErrUnauthorized):
		return "Invalid API key."
	default:
		return "Failed to fetch weather data. Try again later."
	}
}
