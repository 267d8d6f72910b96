package weather

import (
	"math"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Reading is the current-conditions payload for a single city as returned by
// a provider. It lives only for the duration of one result-page render and is
// never stored.
type Reading struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Condition   string    `json:"condition"`   // provider's primary label, e.g. "Clouds"
	Description string    `json:"description"` // provider's longer text, e.g. "broken clouds"
	Kind        Condition `json:"kind"`
	TempC       float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	WindSpeed   float64   `json:"windSpeedMS"`
}

// TempF derives the Fahrenheit temperature from the Celsius reading.
func (r Reading) TempF() float64 {
	return r.TempC*9/5 + 32
}

// Round1 rounds v to one decimal place. Display values (both °C and °F) go
// through this before rendering.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
