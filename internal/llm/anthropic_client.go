// In file: internal/llm/anthropic_client.go
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

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// --- API Data Structures ---

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float32           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Usage   anthropicUsage          `json:"usage"`
}

// --- Main Client ---

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	apiKey   string
	endpoint string
	poster   retryingPoster
}

var _ LLMClient = (*AnthropicClient)(nil)

func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key cannot be empty")
	}
	return &AnthropicClient{
		apiKey:   apiKey,
		endpoint: anthropicAPIURL,
		poster:   newRetryingPoster("anthropic"),
	}, nil
}

func (c *AnthropicClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	payload, err := c.buildRequestPayload(messages, config)
	if err != nil {
		return nil, fmt.Errorf("failed to build anthropic request payload: %w", err)
	}
	respBody, err := c.poster.post(ctx, payload, c.createRequest)
	if err != nil {
		return nil, err
	}
	return parseAnthropicResponse(respBody)
}

// --- Helper Functions ---

func (c *AnthropicClient) buildRequestPayload(messages []Message, config *GenerationConfig) ([]byte, error) {
	if config == nil {
		config = &GenerationConfig{}
	}
	systemPrompt, anthropicMsgs := toAnthropicMessages(messages)
	req := anthropicRequest{
		Model:       config.Model,
		Messages:    anthropicMsgs,
		System:      systemPrompt,
		MaxTokens:   defaultMaxTokens,
		Temperature: config.Temperature,
	}
	if config.MaxTokens > 0 {
		req.MaxTokens = config.MaxTokens
	}
	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return payloadBytes, nil
}

// toAnthropicMessages lifts system messages into the top-level system field,
// which is where the messages API expects them.
func toAnthropicMessages(messages []Message) (string, []anthropicMessage) {
	var system []string
	var out []anthropicMessage
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		out = append(out, anthropicMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return strings.Join(system, "\n\n"), out
}

func parseAnthropicResponse(body []byte) (*GenerationResult, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal anthropic response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, errors.New("no content returned from Anthropic")
	}
	var contentBuilder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			contentBuilder.WriteString(block.Text)
		}
	}
	return &GenerationResult{
		Content: strings.TrimSpace(contentBuilder.String()),
		Usage: api.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

func (c *AnthropicClient) createRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")
	return req, nil
}
