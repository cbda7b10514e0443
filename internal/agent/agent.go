// In file: internal/agent/agent.go
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/store"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/version"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// NoLocationResponse is the clarification given when no city can be resolved.
const NoLocationResponse = "I couldn't understand which city you're asking about. Please specify a city name clearly, like 'weather in San Francisco' or 'Tokyo weather'."

// State is a step of query processing.
type State string

const (
	StateIdle              State = "idle"
	StateIntentDetected    State = "intent_detected"
	StateLocationResolved  State = "location_resolved"
	StateAbortedNoLocation State = "aborted_no_location"
	StateToolDispatched    State = "tool_dispatched"
	StateResponseComposed  State = "response_composed"
	StateLogged            State = "logged"
	StateSummaryEmitted    State = "summary_emitted"
)

// Result is the outcome of one query.
type Result struct {
	Response string        `json:"response"`
	Intent   Intent        `json:"intent"`
	City     string        `json:"city,omitempty"`
	Outcome  store.Outcome `json:"outcome"`
	State    State         `json:"state"`
	// Trace lists every state passed through, in order.
	Trace []State `json:"trace"`
}

func (r *Result) enter(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

// Options wires the agent's collaborators. Registry and Resolver are required.
type Options struct {
	Registry    *tools.Registry
	Resolver    *Resolver
	Ledger      *llm.Ledger
	Log         store.Log
	Counters    *Counters
	IntentRules []IntentRule
	SessionID   string
	Now         func() time.Time
}

// Agent answers weather questions one at a time.
type Agent struct {
	registry  *tools.Registry
	resolver  *Resolver
	ledger    *llm.Ledger
	log       store.Log
	counters  *Counters
	rules     []IntentRule
	sessionID string
	now       func() time.Time
}

func New(opts Options) *Agent {
	a := &Agent{
		registry:  opts.Registry,
		resolver:  opts.Resolver,
		ledger:    opts.Ledger,
		log:       opts.Log,
		counters:  opts.Counters,
		rules:     opts.IntentRules,
		sessionID: opts.SessionID,
		now:       opts.Now,
	}
	if a.ledger == nil {
		a.ledger = llm.NewLedger()
	}
	if a.counters == nil {
		a.counters = &Counters{}
	}
	if a.rules == nil {
		a.rules = DefaultIntentRules
	}
	if a.sessionID == "" {
		a.sessionID = uuid.NewString()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// SessionID identifies this agent's session in the interaction log.
func (a *Agent) SessionID() string { return a.sessionID }

// Counts returns the outbound call counts so far.
func (a *Agent) Counts() CallCounts {
	return a.counters.snapshot(a.ledger.Len())
}

// Ledger returns the LLM usage ledger.
func (a *Agent) Ledger() *llm.Ledger { return a.ledger }

// ProcessQuery answers query and returns only the response text.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	return a.Process(ctx, query).Response
}

// Process answers query. Failures of the tools it calls are turned into
// apologies in the response; Process itself never fails.
func (a *Agent) Process(ctx context.Context, query string) Result {
	res := Result{}
	res.enter(StateIdle)
	log.Info().Str("query", query).Msg("📥 Processing query")

	intent, matched := DetectIntent(a.rules, query)
	if !matched {
		log.Info().Msg("No specific time reference found, defaulting to current weather")
	}
	res.Intent = intent
	res.enter(StateIntentDetected)
	log.Info().Str("intent", string(intent)).Msg("🧭 Detected intent")

	city, ok := a.resolver.Resolve(ctx, query)
	if !ok {
		res.enter(StateAbortedNoLocation)
		res.Response = NoLocationResponse
		res.Outcome = store.OutcomeNoLocation
		log.Info().Msg("→ Could not identify a valid city name")
		a.finish(ctx, query, &res)
		return res
	}
	res.City = city
	res.enter(StateLocationResolved)
	log.Info().Str("city", city).Msg("📍 Target location")

	switch intent {
	case IntentCurrent:
		res.enter(StateToolDispatched)
		res.Response, res.Outcome = a.current(ctx, city)
	case IntentForecast:
		res.enter(StateToolDispatched)
		res.Response, res.Outcome = a.forecast(ctx, query, city)
	case IntentHistory:
		log.Info().Msg("→ Historical weather functionality is not implemented yet")
		res.Response = fmt.Sprintf("I'm sorry, I don't have access to historical weather data for %s yet.", city)
		res.Outcome = store.OutcomeUnsupported
	}
	res.enter(StateResponseComposed)

	a.finish(ctx, query, &res)
	return res
}

func (a *Agent) current(ctx context.Context, city string) (string, store.Outcome) {
	log.Info().Str("tool", tools.ToolCurrentWeather).Msgf("🔧 Fetching current weather for %s", city)
	out, err := a.registry.Invoke(ctx, tools.ToolCurrentWeather, tools.Params{"city": city})
	if err == nil {
		a.counters.weather.Add(1)
	}
	reading, ok := out.(weather.Reading)
	if err != nil || !ok {
		log.Error().Err(err).Str("city", city).Msg("❌ Error using weather tool")
		return fmt.Sprintf("I'm sorry, I encountered an error getting weather for %s.", city), store.OutcomeToolError
	}
	if !reading.Known() {
		log.Warn().Str("city", city).Msg("→ Could not retrieve weather data from API")
		return fmt.Sprintf("I'm sorry, I couldn't get the current weather for %s.", city), store.OutcomeUpstreamUnavailable
	}

	log.Info().Msgf("→ Successfully retrieved weather data: %s°C, %s", reading.Temperature(), reading.Conditions)
	response := fmt.Sprintf("Current weather in %s: %s°C, %s", city, reading.Temperature(), reading.Conditions)
	if s := a.suggest(ctx, city, reading, false); s != nil {
		response += s.Text()
	}
	return response, store.OutcomeAnswered
}

func (a *Agent) forecast(ctx context.Context, query, city string) (string, store.Outcome) {
	plan := PlanForecast(query, a.now())
	ev := log.Info().Str("phrase", plan.Phrase).Int("days", plan.Days)
	if plan.Horizon == HorizonWeekend {
		ev = ev.Str("saturday", plan.Saturday).Str("sunday", plan.Sunday)
	}
	ev.Msgf("🔧 Fetching forecast for %s", city)

	out, err := a.registry.Invoke(ctx, tools.ToolForecast, tools.Params{"city": city, "days": plan.Days})
	if err == nil {
		a.counters.forecast.Add(1)
	}
	f, ok := out.(weather.Forecast)
	if err != nil || !ok {
		log.Error().Err(err).Str("city", city).Msg("❌ Error using forecast tool")
		return fmt.Sprintf("I'm sorry, I encountered an error getting the forecast for %s.", city), store.OutcomeToolError
	}
	if len(f) == 0 {
		log.Warn().Str("city", city).Msg("→ Forecast API returned no days")
		return fmt.Sprintf("I'm sorry, I couldn't get the weather forecast for %s.", city), store.OutcomeUpstreamUnavailable
	}

	response, first := composeForecast(city, f, plan)
	if s := a.suggest(ctx, city, first.Reading(), true); s != nil {
		response += "\n" + s.Text()
	}
	return response, store.OutcomeAnswered
}

// suggest runs the activity tool. Any failure only drops the suggestion.
func (a *Agent) suggest(ctx context.Context, city string, reading weather.Reading, isForecast bool) *activity.Suggestion {
	log.Info().Str("tool", tools.ToolActivitySuggestion).Msg("🔧 Looking for an activity")
	out, err := a.registry.Invoke(ctx, tools.ToolActivitySuggestion, tools.Params{
		"city":        city,
		"weather":     reading,
		"is_forecast": isForecast,
	})
	if err != nil {
		var missing *tools.MissingParametersError
		if errors.Is(err, tools.ErrToolNotFound) || errors.As(err, &missing) {
			log.Error().Err(err).Msg("❌ Activity tool misconfigured")
		} else {
			log.Warn().Err(err).Msg("⚠️ Activity suggestion failed")
		}
		return nil
	}
	s, _ := out.(*activity.Suggestion)
	if s == nil {
		log.Info().Msg("→ No activity suggestion found")
	}
	return s
}

// finish logs the interaction and emits the session summaries.
func (a *Agent) finish(ctx context.Context, query string, res *Result) {
	if a.log != nil {
		in := store.Interaction{
			ID:            uuid.NewString(),
			SessionID:     a.sessionID,
			Timestamp:     a.now(),
			Query:         query,
			Response:      res.Response,
			Outcome:       res.Outcome,
			PromptVersion: version.Stamp(),
		}
		if err := a.log.Append(ctx, in); err != nil {
			log.Error().Err(err).Msg("❌ Failed to save interaction")
		} else {
			log.Debug().Str("id", in.ID).Msg("💾 Interaction saved")
		}
	}
	res.enter(StateLogged)

	a.emitSummary()
	res.enter(StateSummaryEmitted)
}

func (a *Agent) emitSummary() {
	s := a.ledger.Summary(false)
	log.Info().
		Int("llm_calls", s.TotalCalls).
		Int("input_tokens", s.TotalInputTokens).
		Int("output_tokens", s.TotalOutputTokens).
		Float64("cost_usd", s.TotalCost).
		Dur("session", s.Duration).
		Msg("📊 Session summary")

	c := a.Counts()
	log.Info().
		Int("weather", c.Weather).
		Int("forecast", c.Forecast).
		Int("search", c.Search).
		Int("total", c.Total).
		Msg("📡 API call summary")
}
