package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

type stubProvider struct {
	cities []string
	days   []int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CurrentWeather(_ context.Context, city string) weather.Reading {
	s.cities = append(s.cities, city)
	return weather.Reading{TemperatureC: 21, Conditions: "clear sky"}
}

func (s *stubProvider) Forecast(_ context.Context, city string, days int) weather.Forecast {
	s.cities = append(s.cities, city)
	s.days = append(s.days, days)
	return make(weather.Forecast, days)
}

type stubSearcher struct{ snippet string }

func (s stubSearcher) Search(_ context.Context, q string) (string, bool) {
	return s.snippet, s.snippet != ""
}

type stubSuggester struct {
	got weather.Reading
}

func (s *stubSuggester) Suggest(_ context.Context, city string, r weather.Reading, isForecast bool) (*activity.Suggestion, error) {
	s.got = r
	return &activity.Suggestion{Attraction: "Space Needle"}, nil
}

func TestInvokeReportsMissingParametersInOrder(t *testing.T) {
	called := false
	r := NewRegistry()
	r.Register(Descriptor{
		Name:     "pair",
		Required: []string{"first", "second", "third"},
		Func: func(context.Context, Params) (any, error) {
			called = true
			return nil, nil
		},
	})

	_, err := r.Invoke(context.Background(), "pair", Params{"second": 2})
	var missing *MissingParametersError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"first", "third"}, missing.Missing)
	assert.False(t, called, "callable must not run when validation fails")
}

func TestInvokeUnknownAndUnboundTools(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)

	r.Register(Descriptor{Name: "bare", Required: []string{"x"}})
	_, err = r.Invoke(context.Background(), "bare", Params{})
	var missing *MissingParametersError
	assert.True(t, errors.As(err, &missing), "parameters are checked before binding")

	_, err = r.Invoke(context.Background(), "bare", Params{"x": 1})
	var unbound *UnboundToolError
	assert.True(t, errors.As(err, &unbound))
}

func TestRegisterOverwritesAndListIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Name: "zeta", Description: "old"})
	r.Register(Descriptor{Name: "alpha", Category: CategoryExternalAPI})
	r.Register(Descriptor{Name: "zeta", Description: "new", Category: CategoryDataProcessing})

	require.Equal(t, 2, r.Count())
	list := r.List()
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "new", list[1].Description)

	byCat := r.ListByCategory(CategoryDataProcessing)
	require.Len(t, byCat, 1)
	assert.Equal(t, "zeta", byCat[0].Name)
}

func TestBoundTools(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	suggester := &stubSuggester{}

	r := NewRegistry()
	r.Register(NewCurrentWeatherTool(provider))
	r.Register(NewForecastTool(provider))
	r.Register(NewWebSearchTool(stubSearcher{snippet: "Space Needle"}))
	r.Register(NewActivityTool(suggester))
	assert.Equal(t, 4, r.Count())

	out, err := r.Invoke(ctx, ToolCurrentWeather, Params{"city": "Seattle"})
	require.NoError(t, err)
	assert.Equal(t, 21.0, out.(weather.Reading).TemperatureC)

	out, err = r.Invoke(ctx, ToolForecast, Params{"city": "Seattle"})
	require.NoError(t, err)
	assert.Len(t, out.(weather.Forecast), defaultForecastDays)

	_, err = r.Invoke(ctx, ToolForecast, Params{"city": "Seattle", "days": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3}, provider.days)

	_, err = r.Invoke(ctx, ToolCurrentWeather, Params{"city": ""})
	assert.Error(t, err)

	out, err = r.Invoke(ctx, ToolWebSearch, Params{"query": "seattle"})
	require.NoError(t, err)
	assert.Equal(t, SearchResult{Query: "seattle", Snippet: "Space Needle", Found: true}, out)

	reading := weather.Reading{TemperatureC: 12, Conditions: "rain"}
	out, err = r.Invoke(ctx, ToolActivitySuggestion, Params{"city": "Seattle", "weather": reading, "is_forecast": true})
	require.NoError(t, err)
	assert.Equal(t, "Space Needle", out.(*activity.Suggestion).Attraction)
	assert.Equal(t, reading, suggester.got)

	_, err = r.Invoke(ctx, ToolActivitySuggestion, Params{"city": "Seattle", "weather": "sunny"})
	assert.Error(t, err)
}
