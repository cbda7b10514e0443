package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/dileep-u-k/weather-agent/internal/resilience"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	// The free 3-hourly forecast covers five days.
	openWeatherMaxDays = 5
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		httpCfg: httpConfig(client),
		circuit: resilience.NewBreaker("openweather"),
	}
}

// WithBaseURL points the provider at a different API root.
func (p *OpenWeatherProvider) WithBaseURL(u string) *OpenWeatherProvider {
	p.baseURL = u
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherCurrent struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type openWeatherForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, city string) weather.Reading {
	var payload openWeatherCurrent
	if err := p.get(ctx, "/weather", url.Values{"q": {city}}, &payload); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Str("city", city).Msg("⚠️ current weather unavailable")
		return weather.UnknownReading()
	}
	if payload.Main == nil || len(payload.Weather) == 0 {
		log.Warn().Str("provider", p.name).Str("city", city).Msg("⚠️ current weather response missing fields")
		return weather.UnknownReading()
	}
	return weather.Reading{
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		Conditions:   payload.Weather[0].Description,
	}
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string, days int) weather.Forecast {
	days = clampDays(days, openWeatherMaxDays)

	var payload openWeatherForecast
	if err := p.get(ctx, "/forecast", url.Values{"q": {city}}, &payload); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Str("city", city).Msg("⚠️ forecast unavailable")
		return nil
	}

	fc := groupOpenWeatherDays(payload)
	if len(fc) > days {
		fc = fc[:days]
	}
	return fc
}

// groupOpenWeatherDays folds 3-hourly entries into calendar days in the
// city's local time: min of mins, max of maxes, mean humidity and the most
// frequent description.
func groupOpenWeatherDays(payload openWeatherForecast) weather.Forecast {
	offset := time.Duration(payload.City.Timezone) * time.Second

	type acc struct {
		min, max, humiditySum float64
		n                     int
		conditions            map[string]int
		order                 []string
	}
	byDate := map[string]*acc{}
	var dates []string

	for _, item := range payload.List {
		date := time.Unix(item.Dt, 0).UTC().Add(offset).Format("2006-01-02")
		a, ok := byDate[date]
		if !ok {
			a = &acc{min: math.Inf(1), max: math.Inf(-1), conditions: map[string]int{}}
			byDate[date] = a
			dates = append(dates, date)
		}
		a.min = math.Min(a.min, item.Main.TempMin)
		a.max = math.Max(a.max, item.Main.TempMax)
		a.humiditySum += item.Main.Humidity
		a.n++
		if len(item.Weather) > 0 {
			desc := item.Weather[0].Description
			if a.conditions[desc] == 0 {
				a.order = append(a.order, desc)
			}
			a.conditions[desc]++
		}
	}

	sort.Strings(dates)
	fc := make(weather.Forecast, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		var best string
		for _, desc := range a.order {
			if a.conditions[desc] > a.conditions[best] {
				best = desc
			}
		}
		fc = append(fc, weather.ForecastDay{
			Date:        date,
			MinTempC:    a.min,
			MaxTempC:    a.max,
			Conditions:  best,
			HumidityPct: math.Round(a.humiditySum / float64(a.n)),
		})
	}
	return fc
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", "metric")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode()), nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
