// In file: internal/llm/client.go
package llm

import (
	"context"

	"github.com/dileep-u-k/weather-agent/internal/api"
)

// =================================================================================
// Core Data Structures
// =================================================================================

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message sent to a model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds the parameters that control a single generation.
type GenerationConfig struct {
	// The specific model to use for the generation (e.g., "mistralai/Mixtral-8x7B-Instruct-v0.1").
	Model string
	// Controls randomness. A lower value makes the output more deterministic.
	// A pointer distinguishes an explicit 0.0 from an unset value.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// Nucleus sampling, rarely needed by the agent.
	TopP *float32
}

// GenerationResult holds the complete output from an LLM call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// Token usage as reported by the provider. Zero when the provider omits it.
	Usage api.Usage
}

// =================================================================================
// LLM Client Interface
// =================================================================================

// LLMClient is the interface every provider client implements.
type LLMClient interface {
	// Generate performs a blocking completion request and returns the full result.
	Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error)
}

// Float32 returns a pointer to v, for populating GenerationConfig fields.
func Float32(v float32) *float32 {
	return &v
}
