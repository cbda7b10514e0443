package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/search"
	"github.com/dileep-u-k/weather-agent/internal/store"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// scriptedClient answers by recognizing which prompt it was sent.
type scriptedClient struct {
	verify, terms, recommend string
}

func (c *scriptedClient) Generate(_ context.Context, msgs []llm.Message, _ *llm.GenerationConfig) (*llm.GenerationResult, error) {
	prompt := msgs[len(msgs)-1].Content
	var text string
	switch {
	case strings.HasPrefix(prompt, "Analyze the location"):
		text = c.verify
	case strings.Contains(prompt, "search terms"):
		text = c.terms
	default:
		text = c.recommend
	}
	return &llm.GenerationResult{Content: text, Usage: api.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120}}, nil
}

type fakeProvider struct {
	reading       weather.Reading
	forecast      weather.Forecast
	currentCalls  int
	forecastCalls int
	lastDays      int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CurrentWeather(context.Context, string) weather.Reading {
	p.currentCalls++
	return p.reading
}

func (p *fakeProvider) Forecast(_ context.Context, _ string, days int) weather.Forecast {
	p.forecastCalls++
	p.lastDays = days
	return p.forecast
}

type mapSearcher map[string]string

func (m mapSearcher) Search(_ context.Context, q string) (string, bool) {
	s, ok := m[q]
	return s, ok
}

type memLog struct {
	entries []store.Interaction
}

func (l *memLog) Append(_ context.Context, in store.Interaction) error {
	l.entries = append(l.entries, in)
	return nil
}

func (l *memLog) Recent(context.Context, int) ([]store.Interaction, error) { return l.entries, nil }
func (l *memLog) Close() error { return nil }

type fixture struct {
	agent    *Agent
	provider *fakeProvider
	log      *memLog
}

func newFixture(client *scriptedClient, provider *fakeProvider, searcher search.Searcher, now time.Time, register ...string) *fixture {
	ledger := llm.NewLedger()
	gen := llm.NewGenerator(client, llm.ModelInfo{ID: "test-model", InputCostPer1K: 0.001, OutputCostPer1K: 0.002}, nil, ledger)
	counters := &Counters{}
	counted := counters.CountSearches(searcher)

	all := map[string]tools.Descriptor{
		tools.ToolCurrentWeather:     tools.NewCurrentWeatherTool(provider),
		tools.ToolForecast:           tools.NewForecastTool(provider),
		tools.ToolWebSearch:          tools.NewWebSearchTool(counted),
		tools.ToolActivitySuggestion: tools.NewActivityTool(activity.NewSuggester(gen, counted)),
	}
	if len(register) == 0 {
		for name := range all {
			register = append(register, name)
		}
	}
	reg := tools.NewRegistry()
	for _, name := range register {
		reg.Register(all[name])
	}

	log := &memLog{}
	a := New(Options{
		Registry: reg,
		Resolver: NewResolver(gen),
		Ledger:   ledger,
		Log:      log,
		Counters: counters,
		Now:      func() time.Time { return now },
	})
	return &fixture{agent: a, provider: provider, log: log}
}

var wednesday = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestProcessCurrentWeatherTokyo(t *testing.T) {
	client := &scriptedClient{
		verify:    `{"is_valid": true, "city": "Tokyo", "country": "Japan", "alternates": [], "confidence": 0.98, "disambiguation": ""}`,
		terms:     "outdoor park sightseeing",
		recommend: "Recommended Activity: Shinjuku Gyoen National Garden\nClear skies make it ideal for a stroll.",
	}
	provider := &fakeProvider{reading: weather.Reading{TemperatureC: 22, HumidityPct: 55, Conditions: "clear sky"}}
	searcher := mapSearcher{"outdoor park sightseeing attractions Tokyo": "Visit Shinjuku Gyoen National Garden in spring."}

	f := newFixture(client, provider, searcher, wednesday)
	res := f.agent.Process(context.Background(), "What's the weather in Tokyo?")

	assert.Equal(t, "Current weather in Tokyo: 22°C, clear sky\n\n🎯 Recommended Activity: Shinjuku Gyoen National Garden (great weather for outdoor activities)\nClear skies make it ideal for a stroll.", res.Response)
	assert.Equal(t, IntentCurrent, res.Intent)
	assert.Equal(t, "Tokyo", res.City)
	assert.Equal(t, store.OutcomeAnswered, res.Outcome)
	assert.Equal(t, StateSummaryEmitted, res.State)
	assert.Equal(t, []State{StateIdle, StateIntentDetected, StateLocationResolved, StateToolDispatched, StateResponseComposed, StateLogged, StateSummaryEmitted}, res.Trace)

	counts := f.agent.Counts()
	assert.Equal(t, CallCounts{Weather: 1, Search: 1, LLM: 3, Total: 5}, counts)

	summary := f.agent.Ledger().Summary(false)
	assert.Equal(t, 1, summary.ByOperation[llm.OpVerifyCity].Calls)
	assert.Equal(t, 1, summary.ByOperation[llm.OpSearchTerms].Calls)
	assert.Equal(t, 1, summary.ByOperation[llm.OpSuggestActivity].Calls)

	require.Len(t, f.log.entries, 1)
	entry := f.log.entries[0]
	assert.Equal(t, "What's the weather in Tokyo?", entry.Query)
	assert.Equal(t, res.Response, entry.Response)
	assert.Equal(t, store.OutcomeAnswered, entry.Outcome)
	assert.Equal(t, f.agent.SessionID(), entry.SessionID)
	assert.NotEmpty(t, entry.PromptVersion)
}

func TestProcessUnresolvableLocation(t *testing.T) {
	client := &scriptedClient{verify: `{"is_valid": false, "city": "", "country": "", "alternates": [], "confidence": 0.0, "disambiguation": "This does not appear to be a valid city name."}`}
	provider := &fakeProvider{reading: weather.Reading{TemperatureC: 20, Conditions: "clear sky"}}
	f := newFixture(client, provider, mapSearcher{}, wednesday)

	res := f.agent.Process(context.Background(), "What's the weather in Zzqqxx?")

	assert.Equal(t, NoLocationResponse, res.Response)
	assert.Equal(t, store.OutcomeNoLocation, res.Outcome)
	assert.Contains(t, res.Trace, StateAbortedNoLocation)
	assert.NotContains(t, res.Trace, StateToolDispatched)
	assert.Zero(t, provider.currentCalls)
	assert.Zero(t, provider.forecastCalls)
	assert.Equal(t, CallCounts{LLM: 1, Total: 1}, f.agent.Counts())

	require.Len(t, f.log.entries, 1)
	assert.Equal(t, store.OutcomeNoLocation, f.log.entries[0].Outcome)
}

func TestProcessUnavailableWeatherSkipsSuggestion(t *testing.T) {
	client := &scriptedClient{verify: `{"is_valid": true, "city": "Lima", "country": "Peru", "confidence": 0.9}`}
	provider := &fakeProvider{reading: weather.UnknownReading()}
	f := newFixture(client, provider, mapSearcher{}, wednesday)

	res := f.agent.Process(context.Background(), "weather in Lima")

	assert.Equal(t, "I'm sorry, I couldn't get the current weather for Lima.", res.Response)
	assert.Equal(t, store.OutcomeUpstreamUnavailable, res.Outcome)
	assert.Equal(t, CallCounts{Weather: 1, LLM: 1, Total: 2}, f.agent.Counts())
}

func TestProcessWeekendForecast(t *testing.T) {
	client := &scriptedClient{
		verify:    `{"is_valid": true, "city": "Seattle", "country": "United States", "confidence": 0.95}`,
		terms:     "indoor museum",
		recommend: "Recommended Activity: Museum of Pop Culture\nA dry way to spend a rainy Saturday.",
	}
	provider := &fakeProvider{forecast: weather.Forecast{
		{Date: "2024-05-01", MinTempC: 9, MaxTempC: 15, Conditions: "clear sky"},
		{Date: "2024-05-02", MinTempC: 10, MaxTempC: 16, Conditions: "clear sky"},
		{Date: "2024-05-03", MinTempC: 11, MaxTempC: 17, Conditions: "broken clouds"},
		{Date: "2024-05-04", MinTempC: 10, MaxTempC: 14, Conditions: "light rain"},
		{Date: "2024-05-05", MinTempC: 12, MaxTempC: 18.5, Conditions: "overcast clouds"},
	}}
	searcher := mapSearcher{"indoor museum attractions Seattle": "Museum of Pop Culture"}
	f := newFixture(client, provider, searcher, wednesday)

	res := f.agent.Process(context.Background(), "What's the forecast for this weekend in Seattle?")

	assert.Equal(t, IntentForecast, res.Intent)
	assert.Equal(t, 5, provider.lastDays)
	assert.True(t, strings.HasPrefix(res.Response,
		"Weather forecast for Seattle this weekend:\n\n"+
			"• 2024-05-04 (Saturday): 10°C to 14°C, light rain\n"+
			"• 2024-05-05 (Sunday): 12°C to 18.5°C, overcast clouds\n"), res.Response)
	assert.Contains(t, res.Response, "\n\n\n🎯 Recommended Activity: Museum of Pop Culture (perfect indoor activity for this weather)")
	assert.Equal(t, store.OutcomeAnswered, res.Outcome)
	assert.Equal(t, 1, f.agent.Counts().Forecast)
}

func TestProcessHistoryIsUnsupported(t *testing.T) {
	client := &scriptedClient{verify: `{"is_valid": true, "city": "Rome", "country": "Italy", "confidence": 0.99}`}
	provider := &fakeProvider{}
	f := newFixture(client, provider, mapSearcher{}, wednesday)

	res := f.agent.Process(context.Background(), "what was the weather in Rome last week")

	assert.Equal(t, "I'm sorry, I don't have access to historical weather data for Rome yet.", res.Response)
	assert.Equal(t, store.OutcomeUnsupported, res.Outcome)
	assert.Zero(t, provider.currentCalls+provider.forecastCalls)
}

func TestProcessToolErrorBecomesApology(t *testing.T) {
	client := &scriptedClient{verify: `{"is_valid": true, "city": "Berlin", "country": "Germany", "confidence": 0.99}`}
	provider := &fakeProvider{}
	f := newFixture(client, provider, mapSearcher{}, wednesday, tools.ToolCurrentWeather)

	res := f.agent.Process(context.Background(), "Berlin forecast")

	assert.Equal(t, "I'm sorry, I encountered an error getting the forecast for Berlin.", res.Response)
	assert.Equal(t, store.OutcomeToolError, res.Outcome)
	assert.Zero(t, f.agent.Counts().Forecast)
}

func TestProcessEmptyForecast(t *testing.T) {
	client := &scriptedClient{verify: `{"is_valid": true, "city": "Oslo", "country": "Norway", "confidence": 0.99}`}
	f := newFixture(client, &fakeProvider{}, mapSearcher{}, wednesday)

	assert.Equal(t, "I'm sorry, I couldn't get the weather forecast for Oslo.",
		f.agent.ProcessQuery(context.Background(), "Oslo weather tomorrow"))
}
