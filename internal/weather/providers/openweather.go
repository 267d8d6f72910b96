package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ndavenko/cityweather/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements the weather.Provider interface for
// OpenWeatherMap's current-weather endpoint. Each Current call is a single
// round trip: no retries, no backoff. A circuit breaker fails fast once the
// provider has been failing consistently; it never adds attempts.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, baseURL, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// An unknown city or a rejected key says nothing about provider
		// health; only transport-level trouble should trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, weather.ErrCityNotFound) ||
				errors.Is(err, weather.ErrUnauthorized)
		},
	})

	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/weather"
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current fetches current conditions for the city. The city name goes out as
// the "q" query parameter with units=metric, so temperatures come back in
// Celsius.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured: %w", weather.ErrUnauthorized)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		return p.fetchOnce(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Reading{}, fmt.Errorf("%w: circuit open: %v", weather.ErrUnavailable, err)
		}
		return weather.Reading{}, err
	}

	reading, ok := result.(weather.Reading)
	if !ok {
		return weather.Reading{}, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrUnavailable)
	}
	return reading, nil
}

func (p *OpenWeatherProvider) fetchOnce(req *http.Request) (weather.Reading, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return weather.Reading{}, weather.ErrCityNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return weather.Reading{}, weather.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return weather.Reading{}, fmt.Errorf("%w: unexpected status code %d", weather.ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: decoding response: %v", weather.ErrUnavailable, err)
	}

	reading := weather.Reading{
		City:      payload.Name,
		Country:   payload.Sys.Country,
		TempC:     payload.Main.Temp,
		Humidity:  payload.Main.Humidity,
		WindSpeed: payload.Wind.Speed,
		Kind:      weather.ConditionUnknown,
	}

	if len(payload.Weather) > 0 {
		reading.Condition = payload.Weather[0].Main
		reading.Description = payload.Weather[0].Description
		reading.Kind = mapOpenWeatherCondition(payload.Weather[0].Main)
	}

	return reading, nil
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
