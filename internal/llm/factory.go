// In file: internal/llm/factory.go
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifies an LLM backend. The set is closed and chosen at startup.
type Provider string

const (
	ProviderTogether   Provider = "together"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOpenAI     Provider = "openai"
	ProviderMistral    Provider = "mistral"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGemini     Provider = "gemini"
)

// Providers lists every supported backend.
func Providers() []Provider {
	return []Provider{ProviderTogether, ProviderOpenRouter, ProviderOpenAI, ProviderMistral, ProviderAnthropic, ProviderGemini}
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown LLM provider %q", s)
}

// DefaultModel is the model used when none is configured for the provider.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderTogether:
		return "mistralai/Mixtral-8x7B-Instruct-v0.1"
	case ProviderOpenRouter:
		return "deepseek/deepseek-r1:free"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderMistral:
		return "mistral-small-latest"
	case ProviderAnthropic:
		return "claude-3-haiku-20240307"
	case ProviderGemini:
		return "gemini-1.5-flash"
	}
	return ""
}

// APIKeyEnv is the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	return strings.ToUpper(string(p)) + "_API_KEY"
}

// NewClient creates the client for a provider.
func NewClient(ctx context.Context, provider Provider, apiKey, model string) (LLMClient, error) {
	var (
		client LLMClient
		err    error
	)
	switch provider {
	case ProviderTogether:
		client, err = NewOpenAICompatibleClient(string(provider), apiKey, togetherAPIURL)
	case ProviderOpenRouter:
		var c *OpenAIClient
		c, err = NewOpenAICompatibleClient(string(provider), apiKey, openRouterAPIURL)
		if err == nil {
			client = c.WithHeader("X-Title", "weather-agent")
		}
	case ProviderOpenAI:
		client, err = NewOpenAIClient(apiKey)
	case ProviderMistral:
		client, err = NewOpenAICompatibleClient(string(provider), apiKey, mistralAPIURL)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(apiKey)
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", provider, err)
	}
	return client, nil
}
