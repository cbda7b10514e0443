// In file: cmd/weather-agent/bootstrap.go
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/agent"
	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/search"
	"github.com/dileep-u-k/weather-agent/internal/store"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"
	"github.com/dileep-u-k/weather-agent/internal/weather/providers"
)

// App is the composition root: every collaborator the agent needs, wired once.
type App struct {
	Agent    *agent.Agent
	Registry *tools.Registry
	Model    llm.ModelInfo

	closers []io.Closer
}

// NewApp builds the agent from a validated config.
func NewApp(ctx context.Context, cfg *Config) (*App, error) {
	app := &App{}

	catalog := cfg.Catalog()
	model, known := catalog.Lookup(cfg.LLMModel)
	if !known {
		log.Warn().Str("model", cfg.LLMModel).Msg("⚠️ Model not in catalog, using default pricing")
		model.Provider = cfg.LLMProvider
	}

	client, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.LLMAPIKey, model.ID)
	if err != nil {
		return nil, err
	}
	if c, ok := client.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	ledger := llm.NewLedger()
	gen := llm.NewGenerator(client, model, cfg.Operations, ledger)
	log.Info().Str("provider", string(cfg.LLMProvider)).Str("model", model.ID).Msg("✅ LLM client initialized")

	provider, err := providers.New(cfg.WeatherProvider, nil, cfg.WeatherAPIKey)
	if err != nil {
		app.Close()
		return nil, err
	}

	brave, err := search.NewBraveClient(nil, cfg.BraveAPIKey)
	if err != nil {
		app.Close()
		return nil, err
	}
	counters := &agent.Counters{}
	searcher := counters.CountSearches(brave)

	interactions, err := openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, interactions)

	app.Registry = newRegistry(provider, searcher, activity.NewSuggester(gen, searcher))
	app.Model = model
	app.Agent = agent.New(agent.Options{
		Registry:  app.Registry,
		Resolver:  agent.NewResolver(gen),
		Ledger:    ledger,
		Log:       interactions,
		Counters:  counters,
		SessionID: uuid.NewString(),
	})

	log.Info().
		Str("weather_provider", provider.Name()).
		Str("store", string(cfg.Store)).
		Int("tools", app.Registry.Count()).
		Msg("✅ All services initialized.")
	return app, nil
}

// newRegistry registers every tool. Nil collaborators are allowed when the
// registry is only listed.
func newRegistry(provider weather.Provider, searcher search.Searcher, suggester tools.ActivitySuggester) *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.NewCurrentWeatherTool(provider))
	r.Register(tools.NewForecastTool(provider))
	r.Register(tools.NewWebSearchTool(searcher))
	r.Register(tools.NewActivityTool(suggester))
	return r
}

// openStore opens the interaction log selected by the config.
func openStore(ctx context.Context, cfg *Config) (store.Log, error) {
	switch cfg.Store {
	case store.KindRedis:
		l, err := store.NewRedisLog(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("✅ Connected to Redis interaction log")
		return l, nil
	case store.KindSQLite:
		l, err := store.NewSQLiteLog(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("✅ Opened SQLite interaction log")
		return l, nil
	}
	return nil, fmt.Errorf("unknown interaction store %q", cfg.Store)
}

// Close releases the store and any client holding connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Error during shutdown")
		}
	}
	a.closers = nil
}
