// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiClient is the client for interacting with Google's Gemini models.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel

	// The SDK model carries its settings as mutable fields, so calls are serialized.
	mu sync.Mutex
}

var _ LLMClient = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: client.GenerativeModel(modelID)}, nil
}

// Generate performs a blocking request to the Gemini API.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("gemini: no messages to send")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.configureModel(config)
	system, parts := toGeminiParts(messages)
	if system != "" {
		c.model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	} else {
		c.model.SystemInstruction = nil
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: gemini: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return c.parseGeminiResponse(ctx, resp)
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// configureModel applies per-call settings using the SDK's setter methods.
func (c *GeminiClient) configureModel(config *GenerationConfig) {
	maxTokens := int32(defaultMaxTokens)
	if config != nil {
		if config.Temperature != nil {
			c.model.SetTemperature(*config.Temperature)
		}
		if config.TopP != nil {
			c.model.SetTopP(*config.TopP)
		}
		if config.MaxTokens > 0 {
			maxTokens = int32(config.MaxTokens)
		}
	}
	c.model.SetMaxOutputTokens(maxTokens)
}

// toGeminiParts flattens the conversation into a system instruction and the
// user-visible parts of a single-turn request.
func toGeminiParts(messages []Message) (string, []genai.Part) {
	var system []string
	var parts []genai.Part
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}
	return strings.Join(system, "\n\n"), parts
}

// parseGeminiResponse converts a Gemini API response into our internal GenerationResult.
func (c *GeminiClient) parseGeminiResponse(ctx context.Context, resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from Gemini")
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}
	result := &GenerationResult{Content: strings.TrimSpace(contentBuilder.String())}

	if resp.UsageMetadata != nil {
		result.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	// The API sometimes omits completion tokens; count them explicitly.
	if result.Usage.CompletionTokens == 0 && result.Content != "" {
		countResp, err := c.model.CountTokens(ctx, genai.Text(result.Content))
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ failed to count Gemini completion tokens")
		} else {
			result.Usage.CompletionTokens = int(countResp.TotalTokens)
			result.Usage.TotalTokens = result.Usage.PromptTokens + result.Usage.CompletionTokens
		}
	}

	return result, nil
}
