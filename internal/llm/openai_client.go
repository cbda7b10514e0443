// In file: internal/llm/openai_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dileep-u-k/weather-agent/internal/api"
)

// Chat-completions endpoints that speak the OpenAI wire format.
const (
	openAIAPIURL     = "https://api.openai.com/v1/chat/completions"
	togetherAPIURL   = "https://api.together.xyz/v1/chat/completions"
	openRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"
	mistralAPIURL    = "https://api.mistral.ai/v1/chat/completions"
)

// openAIRequest defines the top-level structure for a chat-completions call.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
	TopP        *float32        `json:"top_p,omitempty"`
}

// openAIMessage represents a single message in a conversation.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse is the structure of a successful response from the API.
type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage api.Usage `json:"usage"`
}

// OpenAIClient talks to any chat-completions endpoint compatible with the
// OpenAI format: OpenAI itself, Together AI, OpenRouter and Mistral.
type OpenAIClient struct {
	apiKey   string
	endpoint string
	headers  map[string]string
	poster   retryingPoster
}

// Statically verify that OpenAIClient implements the LLMClient interface.
var _ LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAICompatibleClient("openai", apiKey, openAIAPIURL)
}

// NewOpenAICompatibleClient creates a client for an arbitrary chat-completions
// endpoint. The name only labels errors and log lines.
func NewOpenAICompatibleClient(name, apiKey, endpoint string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key cannot be empty", name)
	}
	if endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}
	return &OpenAIClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		headers:  map[string]string{},
		poster:   newRetryingPoster(name),
	}, nil
}

// WithHeader sets an extra request header, e.g. the HTTP-Referer OpenRouter asks for.
func (c *OpenAIClient) WithHeader(key, value string) *OpenAIClient {
	c.headers[key] = value
	return c
}

// Generate performs a blocking request to the chat-completions endpoint.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	payload, err := c.buildRequestPayload(messages, config)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request payload: %w", c.poster.provider, err)
	}

	respBody, err := c.poster.post(ctx, payload, c.createRequest)
	if err != nil {
		return nil, err
	}

	return parseOpenAIResponse(respBody)
}

// buildRequestPayload constructs the JSON body for the API call.
func (c *OpenAIClient) buildRequestPayload(messages []Message, config *GenerationConfig) ([]byte, error) {
	if config == nil {
		config = &GenerationConfig{}
	}
	req := openAIRequest{
		Model:    config.Model,
		Messages: toOpenAIMessages(messages),
	}
	if config.MaxTokens > 0 {
		req.MaxTokens = config.MaxTokens
	}
	req.Temperature = config.Temperature
	req.TopP = config.TopP

	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return payloadBytes, nil
}

// createRequest builds the common parts of an http.Request.
func (c *OpenAIClient) createRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// toOpenAIMessages converts our internal message slice to the API format.
func toOpenAIMessages(messages []Message) []openAIMessage {
	out := make([]openAIMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, openAIMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

// parseOpenAIResponse converts an API response to our internal GenerationResult.
func parseOpenAIResponse(body []byte) (*GenerationResult, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned from chat completion")
	}
	return &GenerationResult{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage:   resp.Usage,
	}, nil
}
