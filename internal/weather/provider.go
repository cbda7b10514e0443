package weather

import (
	"context"
	"fmt"
	"strings"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI).
//
// Implementations never return errors: upstream failures are logged and
// surface as UnknownReading or an empty Forecast.
type Provider interface {
	Name() string
	CurrentWeather(ctx context.Context, city string) Reading
	// Forecast returns up to days entries starting with the city's current
	// local day. Providers cap the count at their own maximum.
	Forecast(ctx context.Context, city string, days int) Forecast
}

// Kind selects a provider implementation at startup.
type Kind string

const (
	KindOpenWeather Kind = "openweather"
	KindWeatherAPI  Kind = "weatherapi"
)

// ParseKind validates a provider name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindOpenWeather, KindWeatherAPI:
		return k, nil
	}
	return "", fmt.Errorf("unknown weather provider %q", s)
}
