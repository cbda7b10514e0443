package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/dileep-u-k/weather-agent/internal/resilience"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

const (
	weatherAPIBaseURL = "https://api.weatherapi.com/v1"
	weatherAPIMaxDays = 10
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: weatherAPIBaseURL,
		httpCfg: httpConfig(client),
		circuit: resilience.NewBreaker("weatherapi"),
	}
}

// WithBaseURL points the provider at a different API root.
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPICurrent struct {
	Current *struct {
		TempC     float64             `json:"temp_c"`
		Humidity  float64             `json:"humidity"`
		Condition weatherAPICondition `json:"condition"`
	} `json:"current"`
}

type weatherAPIForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MinTempC    float64             `json:"mintemp_c"`
				MaxTempC    float64             `json:"maxtemp_c"`
				AvgHumidity float64             `json:"avghumidity"`
				Condition   weatherAPICondition `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) CurrentWeather(ctx context.Context, city string) weather.Reading {
	var payload weatherAPICurrent
	if err := p.get(ctx, "/current.json", url.Values{"q": {city}}, &payload); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Str("city", city).Msg("⚠️ current weather unavailable")
		return weather.UnknownReading()
	}
	if payload.Current == nil {
		log.Warn().Str("provider", p.name).Str("city", city).Msg("⚠️ current weather response missing fields")
		return weather.UnknownReading()
	}
	return weather.Reading{
		TemperatureC: payload.Current.TempC,
		HumidityPct:  payload.Current.Humidity,
		Conditions:   payload.Current.Condition.Text,
	}
}

func (p *WeatherAPIProvider) Forecast(ctx context.Context, city string, days int) weather.Forecast {
	days = clampDays(days, weatherAPIMaxDays)

	var payload weatherAPIForecast
	values := url.Values{"q": {city}, "days": {strconv.Itoa(days)}}
	if err := p.get(ctx, "/forecast.json", values, &payload); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Str("city", city).Msg("⚠️ forecast unavailable")
		return nil
	}

	fc := make(weather.Forecast, 0, len(payload.Forecast.ForecastDay))
	for _, d := range payload.Forecast.ForecastDay {
		fc = append(fc, weather.ForecastDay{
			Date:        d.Date,
			MinTempC:    d.Day.MinTempC,
			MaxTempC:    d.Day.MaxTempC,
			Conditions:  d.Day.Condition.Text,
			HumidityPct: d.Day.AvgHumidity,
		})
	}
	if len(fc) > days {
		fc = fc[:days]
	}
	return fc
}

func (p *WeatherAPIProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("key", p.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode()), nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
