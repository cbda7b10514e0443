package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

type replyGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *replyGenerator) Generate(_ context.Context, prompt string, op llm.Operation) (*llm.Completion, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return nil, g.err
	}
	return &llm.Completion{Text: g.reply}, nil
}

func TestDetectIntent(t *testing.T) {
	cases := map[string]Intent{
		"What's the weather in Tokyo?":             IntentCurrent,
		"weather in Paris right now":               IntentCurrent,
		"what was the weather in Rome last week":   IntentHistory,
		"forecast for Berlin":                      IntentForecast,
		"Will it rain in London tomorrow?":         IntentForecast,
		"what about this weekend in Seattle":       IntentForecast,
		"is it sunny today or tomorrow in Madrid?": IntentCurrent,
	}
	for q, want := range cases {
		got, _ := DetectIntent(DefaultIntentRules, q)
		assert.Equal(t, want, got, q)
	}

	_, matched := DetectIntent(DefaultIntentRules, "Tokyo weather")
	assert.False(t, matched)
}

func TestCityHint(t *testing.T) {
	cases := []struct {
		query, want string
		ok          bool
	}{
		{"What's the weather in Tokyo?", "Tokyo", true},
		{"weather in new york", "New York", true},
		{"Paris weather", "Paris", true},
		{"Springfield, IL", "Springfield", true},
		{"hello there", "", false},
	}
	for _, tc := range cases {
		got, ok := CityHint(tc.query)
		assert.Equal(t, tc.ok, ok, tc.query)
		assert.Equal(t, tc.want, got, tc.query)
	}
}

func TestParseVerificationToleratesCodeFence(t *testing.T) {
	v, err := ParseVerification("```json\n{\"is_valid\": true, \"city\": \"Lima\", \"country\": \"Peru\", \"confidence\": 0.95}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Lima", v.City)
	assert.InDelta(t, 0.95, v.Confidence, 1e-9)

	_, err = ParseVerification("Sure! The city is Lima.")
	assert.Error(t, err)
}

func TestResolvePolicy(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
		want  string
		ok    bool
	}{
		{"confident", `{"is_valid": true, "city": "Paris", "country": "France", "alternates": [], "confidence": 0.95}`, nil, "Paris", true},
		{"exactly threshold without alternates", `{"is_valid": true, "city": "Paris", "country": "France", "confidence": 0.7}`, nil, "", false},
		{"ambiguous", `{"is_valid": true, "city": "Cambridge", "country": "United Kingdom", "alternates": ["United States"], "confidence": 0.5}`, nil, "Cambridge", true},
		{"invalid", `{"is_valid": false, "city": "", "confidence": 0.0, "disambiguation": "not a city"}`, nil, "", false},
		{"malformed", `not json at all`, nil, "", false},
		{"llm error", "", errors.New("upstream down"), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(&replyGenerator{reply: tc.reply, err: tc.err})
			got, ok := r.Resolve(context.Background(), "weather in Paris")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveVerifiedCityOverridesCandidate(t *testing.T) {
	gen := &replyGenerator{reply: `{"is_valid": true, "city": "Paris", "country": "France", "confidence": 0.9}`}
	r := NewResolver(gen)

	first, ok := r.Resolve(context.Background(), "weather in Pariss")
	require.True(t, ok)
	second, _ := r.Resolve(context.Background(), "weather in Pariss")

	assert.Equal(t, "Paris", first)
	assert.Equal(t, first, second)
	assert.Contains(t, gen.prompts[0], "'Pariss'")
}

func TestResolveVerifiesWholeQueryWithoutCandidate(t *testing.T) {
	gen := &replyGenerator{reply: `{"is_valid": false}`}
	_, ok := NewResolver(gen).Resolve(context.Background(), "is it sunny")
	assert.False(t, ok)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "'is it sunny'")
}

func TestDaysToSaturday(t *testing.T) {
	wednesday := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysToSaturday(wednesday))
	assert.Equal(t, 0, DaysToSaturday(time.Date(2024, 5, 4, 17, 59, 0, 0, time.UTC)))
	assert.Equal(t, 7, DaysToSaturday(time.Date(2024, 5, 4, 19, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, DaysToSaturday(time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC)))
}

func TestPlanForecast(t *testing.T) {
	wednesday := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	p := PlanForecast("What's the forecast for this weekend in Seattle?", wednesday)
	assert.Equal(t, HorizonWeekend, p.Horizon)
	assert.Equal(t, 5, p.Days)
	assert.Equal(t, "2024-05-04", p.Saturday)
	assert.Equal(t, "2024-05-05", p.Sunday)

	p = PlanForecast("forecast for next week in Paris", wednesday)
	assert.Equal(t, "next week", p.Phrase)
	assert.Equal(t, HorizonWeek, p.Horizon)
	assert.Equal(t, 7, p.Days)

	p = PlanForecast("Will it rain in London tomorrow?", wednesday)
	assert.Equal(t, HorizonTomorrow, p.Horizon)
	assert.Equal(t, 2, p.Days)
	assert.Equal(t, "2024-05-02", p.Tomorrow)

	p = PlanForecast("Berlin forecast", wednesday)
	assert.Equal(t, "the future", p.Phrase)
	assert.Equal(t, HorizonDays, p.Horizon)
	assert.Equal(t, 5, p.Days)

	p = PlanForecast("next weekend in Rome", wednesday)
	assert.Equal(t, HorizonWeekend, p.Horizon)
}

func days(dates ...string) weather.Forecast {
	f := make(weather.Forecast, len(dates))
	for i, d := range dates {
		f[i] = weather.ForecastDay{Date: d, MinTempC: float64(10 + i), MaxTempC: float64(20 + i), Conditions: "clear sky"}
	}
	return f
}

func labels(ld []LabelledDay) []string {
	var out []string
	for _, d := range ld {
		out = append(out, d.Day.Date+" "+d.Label)
	}
	return out
}

func TestSelectWeekend(t *testing.T) {
	plan := ForecastPlan{Horizon: HorizonWeekend, Saturday: "2024-05-04", Sunday: "2024-05-05"}

	assert.Equal(t, []string{"2024-05-04 Saturday", "2024-05-05 Sunday"},
		labels(SelectWeekend(days("2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05"), plan)))

	assert.Equal(t, []string{"2024-05-01 Saturday", "2024-05-02 Sunday"},
		labels(SelectWeekend(days("2024-05-01", "2024-05-02", "2024-05-03"), plan)))

	assert.Equal(t, []string{"2024-05-01 Weekend"},
		labels(SelectWeekend(days("2024-05-01"), plan)))

	// Saturday found, Sunday missing: the day after stands in.
	assert.Equal(t, []string{"2024-05-04 Saturday", "2024-05-06 Sunday"},
		labels(SelectWeekend(days("2024-05-03", "2024-05-04", "2024-05-06"), plan)))

	// Sunday found, Saturday missing: the day before stands in.
	assert.Equal(t, []string{"2024-05-03 Saturday", "2024-05-05 Sunday"},
		labels(SelectWeekend(days("2024-05-03", "2024-05-05"), plan)))

	// Only Saturday, nothing after it.
	assert.Equal(t, []string{"2024-05-04 Saturday"},
		labels(SelectWeekend(days("2024-05-03", "2024-05-04"), plan)))
}

func TestComposeTomorrow(t *testing.T) {
	f := weather.Forecast{
		{Date: "2024-05-01", MinTempC: 1, MaxTempC: 4, Conditions: "cloudy", HumidityPct: 70},
		{Date: "2024-05-02", MinTempC: 3, MaxTempC: 8.5, Conditions: "light snow", HumidityPct: 80},
	}
	text, day := composeForecast("Oslo", f, ForecastPlan{Horizon: HorizonTomorrow, Tomorrow: "2024-05-02"})
	assert.Equal(t, "Weather forecast for Oslo tomorrow (2024-05-02):\nTemperature: 3°C to 8.5°C\nConditions: light snow\nHumidity: 80%", text)
	assert.Equal(t, "2024-05-02", day.Date)

	// Falls back to the last entry.
	_, day = composeForecast("Oslo", f[:1], ForecastPlan{Horizon: HorizonTomorrow, Tomorrow: "2024-05-02"})
	assert.Equal(t, "2024-05-01", day.Date)
}
