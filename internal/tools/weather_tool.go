// In file: internal/tools/weather_tool.go
package tools

import (
	"context"
	"fmt"

	"github.com/dileep-u-k/weather-agent/internal/weather"
)

const (
	ToolCurrentWeather = "get_current_weather"
	ToolForecast       = "get_weather_forecast"

	defaultForecastDays = 5
)

// NewCurrentWeatherTool binds get_current_weather to a provider. The result
// is a weather.Reading, possibly the unknown sentinel.
func NewCurrentWeatherTool(provider weather.Provider) Descriptor {
	return Descriptor{
		Name:        ToolCurrentWeather,
		Description: "Get the current weather for a city",
		Category:    CategoryExternalAPI,
		Parameters: map[string]*JSONSchema{
			"city": {Type: "string", Description: "City name, e.g. Tokyo or San Francisco"},
		},
		Required: []string{"city"},
		Func: func(ctx context.Context, params Params) (any, error) {
			city, err := requireCity(params)
			if err != nil {
				return nil, err
			}
			return provider.CurrentWeather(ctx, city), nil
		},
	}
}

// NewForecastTool binds get_weather_forecast to a provider. The result is a
// weather.Forecast whose first entry is the city's current local day.
func NewForecastTool(provider weather.Provider) Descriptor {
	return Descriptor{
		Name:        ToolForecast,
		Description: "Get a daily weather forecast for a city, starting today",
		Category:    CategoryExternalAPI,
		Parameters: map[string]*JSONSchema{
			"city": {Type: "string", Description: "City name"},
			"days": {Type: "integer", Description: "Number of days including today (default 5)"},
		},
		Required: []string{"city"},
		Func: func(ctx context.Context, params Params) (any, error) {
			city, err := requireCity(params)
			if err != nil {
				return nil, err
			}
			days, ok := params.Int("days")
			if !ok || days <= 0 {
				days = defaultForecastDays
			}
			return provider.Forecast(ctx, city, days), nil
		},
	}
}

func requireCity(params Params) (string, error) {
	city, _ := params.String("city")
	if city == "" {
		return "", fmt.Errorf("city cannot be empty")
	}
	return city, nil
}
