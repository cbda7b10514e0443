package providers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/resilience"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// defaultTimeout bounds each weather API request.
const defaultTimeout = 30 * time.Second

// New builds the provider selected by kind. A nil client gets a default one.
func New(kind weather.Kind, client *http.Client, apiKey string) (weather.Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	switch kind {
	case weather.KindOpenWeather:
		return NewOpenWeatherProvider(client, apiKey), nil
	case weather.KindWeatherAPI:
		return NewWeatherAPIProvider(client, apiKey), nil
	}
	return nil, fmt.Errorf("unknown weather provider %q", kind)
}

func httpConfig(client *http.Client) resilience.HTTPClientConfig {
	return resilience.HTTPClientConfig{Client: client, Backoff: resilience.DefaultBackoff}
}

// clampDays bounds a requested day count to [1, limit].
func clampDays(days, limit int) int {
	if days < 1 {
		return 1
	}
	if days > limit {
		return limit
	}
	return days
}
