// In file: cmd/weather-agent/config.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/store"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// Config holds everything the agent needs, loaded from the environment and
// the optional YAML file named by AGENT_CONFIG.
type Config struct {
	LLMProvider     llm.Provider `validate:"required"`
	LLMModel        string       `validate:"required"`
	LLMAPIKey       string       `validate:"required"`
	WeatherProvider weather.Kind `validate:"required"`
	WeatherAPIKey   string       `validate:"required"`
	BraveAPIKey     string       `validate:"required"`
	Store           store.Kind   `validate:"required,oneof=sqlite redis"`
	SQLitePath      string       `validate:"required_if=Store sqlite"`
	RedisAddr       string       `validate:"required_if=Store redis"`
	Port            string       `validate:"required,numeric"`
	LogLevel        zerolog.Level

	Operations llm.OperationTable `validate:"dive"`
	Models     []llm.ModelInfo    `validate:"dive"`
}

// Overrides are the command-line flags that take precedence over the environment.
type Overrides struct {
	Provider        string
	Model           string
	WeatherProvider string
}

// fileConfig is the shape of the AGENT_CONFIG YAML file.
type fileConfig struct {
	Operations llm.OperationTable `yaml:"operations"`
	Models     []llm.ModelInfo    `yaml:"models"`
}

var validate = validator.New()

// LoadConfig reads .env (outside release mode), the environment and the YAML
// file. It does not validate: listing commands run without API keys.
func LoadConfig(o Overrides) (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, relying on the environment.")
		}
	}

	provider, err := llm.ParseProvider(firstNonEmpty(o.Provider, getenvDefault("LLM_PROVIDER", string(llm.ProviderTogether))))
	if err != nil {
		return nil, err
	}
	kind, err := weather.ParseKind(firstNonEmpty(o.WeatherProvider, getenvDefault("WEATHER_PROVIDER", string(weather.KindOpenWeather))))
	if err != nil {
		return nil, err
	}
	storeKind, err := store.ParseKind(os.Getenv("INTERACTION_STORE"))
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(getenvDefault("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		LLMProvider:     provider,
		LLMModel:        firstNonEmpty(o.Model, os.Getenv("LLM_MODEL"), provider.DefaultModel()),
		LLMAPIKey:       os.Getenv(provider.APIKeyEnv()),
		WeatherProvider: kind,
		WeatherAPIKey:   os.Getenv("WEATHER_API_KEY"),
		BraveAPIKey:     os.Getenv("BRAVE_API_KEY"),
		Store:           storeKind,
		SQLitePath:      getenvDefault("SQLITE_PATH", "weather_agent.db"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		Port:            getenvDefault("PORT", "8080"),
		LogLevel:        level,
		Operations:      llm.DefaultOperationSettings(),
	}

	if path := os.Getenv("AGENT_CONFIG"); path != "" {
		fc, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Operations = cfg.Operations.Merge(fc.Operations)
		cfg.Models = fc.Models
	}
	return cfg, nil
}

// Validate checks that every value needed to answer queries is present.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var missing []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(missing, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse agent config %s: %w", path, err)
	}
	return &fc, nil
}

// Catalog returns the built-in model catalog extended with the configured models.
func (c *Config) Catalog() *llm.Catalog {
	catalog := llm.NewCatalog()
	for _, m := range c.Models {
		catalog.Add(m)
	}
	return catalog
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
