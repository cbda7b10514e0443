package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/weather-agent/internal/weather"
)

func newServer(t *testing.T, routes map[string]string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenWeatherCurrent(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"main":{"temp":18,"humidity":65},"weather":[{"description":"clear sky"}]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewOpenWeatherProvider(srv.Client(), "k").WithBaseURL(srv.URL)
	r := p.CurrentWeather(context.Background(), "Tokyo")

	assert.Equal(t, weather.Reading{TemperatureC: 18, HumidityPct: 65, Conditions: "clear sky"}, r)
	assert.Contains(t, gotQuery, "q=Tokyo")
	assert.Contains(t, gotQuery, "units=metric")
	assert.Contains(t, gotQuery, "appid=k")
}

func TestOpenWeatherCurrentUnavailable(t *testing.T) {
	srv := newServer(t, nil, http.StatusNotFound)
	p := NewOpenWeatherProvider(srv.Client(), "k").WithBaseURL(srv.URL)

	r := p.CurrentWeather(context.Background(), "Zzqqxx")
	assert.True(t, r.Unavailable)
	assert.Equal(t, "unknown", r.Temperature())
	assert.Equal(t, "unknown", r.Humidity())
	assert.Equal(t, weather.UnavailableConditions, r.Conditions)
}

func TestOpenWeatherCurrentMissingFields(t *testing.T) {
	srv := newServer(t, map[string]string{"/weather": `{"cod":200}`}, http.StatusOK)
	p := NewOpenWeatherProvider(srv.Client(), "k").WithBaseURL(srv.URL)

	assert.True(t, p.CurrentWeather(context.Background(), "Tokyo").Unavailable)
}

func TestOpenWeatherMissingKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	assert.True(t, p.CurrentWeather(context.Background(), "Tokyo").Unavailable)
	assert.Nil(t, p.Forecast(context.Background(), "Tokyo", 3))
}

func TestOpenWeatherForecastGroupsByLocalDate(t *testing.T) {
	// Timezone +9h: 2024-06-01T15:00Z is already 2024-06-02 locally.
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	body := `{"city":{"timezone":32400},"list":[` +
		entry(base, 20, 24, 60, "clear sky") + `,` +
		entry(base+3*3600, 18, 26, 70, "few clouds") + `,` +
		entry(base+6*3600, 19, 25, 80, "clear sky") + `,` +
		entry(base+15*3600, 15, 17, 90, "light rain") + `,` +
		entry(base+39*3600, 12, 16, 50, "overcast clouds") + `]}`
	srv := newServer(t, map[string]string{"/forecast": body}, http.StatusOK)
	p := NewOpenWeatherProvider(srv.Client(), "k").WithBaseURL(srv.URL)

	fc := p.Forecast(context.Background(), "Tokyo", 5)
	require.Len(t, fc, 3)
	assert.Equal(t, weather.ForecastDay{Date: "2024-06-01", MinTempC: 18, MaxTempC: 26, Conditions: "clear sky", HumidityPct: 70}, fc[0])
	assert.Equal(t, "2024-06-02", fc[1].Date)
	assert.Equal(t, 15.0, fc[1].MinTempC)
	assert.Equal(t, "light rain", fc[1].Conditions)
	assert.Equal(t, "2024-06-03", fc[2].Date)

	assert.Len(t, p.Forecast(context.Background(), "Tokyo", 1), 1)
}

func entry(dt int64, min, max, hum float64, desc string) string {
	return `{"dt":` + itoa(dt) + `,"main":{"temp_min":` + ftoa(min) + `,"temp_max":` + ftoa(max) + `,"humidity":` + ftoa(hum) + `},"weather":[{"description":"` + desc + `"}]}`
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func TestWeatherAPICurrentAndForecast(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/current.json": `{"current":{"temp_c":31.5,"humidity":40,"condition":{"text":"Sunny"}}}`,
		"/forecast.json": `{"forecast":{"forecastday":[
			{"date":"2024-06-05","day":{"mintemp_c":20,"maxtemp_c":30,"avghumidity":50,"condition":{"text":"Sunny"}}},
			{"date":"2024-06-06","day":{"mintemp_c":18,"maxtemp_c":22,"avghumidity":80,"condition":{"text":"Patchy rain possible"}}}
		]}}`,
	}, http.StatusOK)
	p := NewWeatherAPIProvider(srv.Client(), "k").WithBaseURL(srv.URL)

	r := p.CurrentWeather(context.Background(), "Dubai")
	assert.Equal(t, 31.5, r.TemperatureC)
	assert.Equal(t, "31.5", r.Temperature())
	assert.Equal(t, weather.ConditionClear, r.Condition())

	fc := p.Forecast(context.Background(), "Dubai", 2)
	require.Len(t, fc, 2)
	assert.Equal(t, "2024-06-06", fc[1].Date)
	assert.Equal(t, 25.0, fc[0].MeanTempC())
	assert.Equal(t, weather.ConditionRain, weather.ClassifyCondition(fc[1].Conditions))
}

func TestWeatherAPIServerErrorYieldsEmptyForecast(t *testing.T) {
	srv := newServer(t, nil, http.StatusBadRequest)
	p := NewWeatherAPIProvider(srv.Client(), "k").WithBaseURL(srv.URL)
	assert.Empty(t, p.Forecast(context.Background(), "Nowhere", 3))
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(weather.KindWeatherAPI, nil, "k")
	require.NoError(t, err)
	assert.Equal(t, "weatherapi", p.Name())

	_, err = New(weather.Kind("accuweather"), nil, "k")
	assert.Error(t, err)
}
