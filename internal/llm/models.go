// In file: internal/llm/models.go
package llm

import (
	"sort"
	"sync"
)

// Cost applied to models that are not in the catalog, in USD per 1K tokens.
const defaultCostPer1K = 0.001

// ModelInfo describes a model the agent can be pointed at.
type ModelInfo struct {
	ID              string   `yaml:"id" json:"id"`
	Provider        Provider `yaml:"provider" json:"provider"`
	Description     string   `yaml:"description" json:"description"`
	InputCostPer1K  float64  `yaml:"input_cost_per_1k" json:"input_cost_per_1k"`
	OutputCostPer1K float64  `yaml:"output_cost_per_1k" json:"output_cost_per_1k"`
}

// Cost returns the USD cost of a call with the given token counts.
func (m ModelInfo) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*m.InputCostPer1K + float64(outputTokens)/1000*m.OutputCostPer1K
}

// builtinModels is the catalog shipped with the agent. Entries from the YAML
// config are merged on top.
var builtinModels = []ModelInfo{
	{ID: "mistralai/Mixtral-8x7B-Instruct-v0.1", Provider: ProviderTogether, Description: "Mixtral 8x7B Instruct (Together AI)", InputCostPer1K: 0.0006, OutputCostPer1K: 0.0006},
	{ID: "meta-llama/Llama-2-70b-chat-hf", Provider: ProviderTogether, Description: "Llama 2 70B Chat (Together AI)", InputCostPer1K: 0.0009, OutputCostPer1K: 0.0009},
	{ID: "deepseek/deepseek-r1:free", Provider: ProviderOpenRouter, Description: "DeepSeek R1 free tier (OpenRouter)", InputCostPer1K: 0, OutputCostPer1K: 0},
	{ID: "gpt-4o-mini", Provider: ProviderOpenAI, Description: "GPT-4o mini", InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006},
	{ID: "mistral-small-latest", Provider: ProviderMistral, Description: "Mistral Small", InputCostPer1K: 0.0002, OutputCostPer1K: 0.0006},
	{ID: "claude-3-haiku-20240307", Provider: ProviderAnthropic, Description: "Claude 3 Haiku", InputCostPer1K: 0.00025, OutputCostPer1K: 0.00125},
	{ID: "gemini-1.5-flash", Provider: ProviderGemini, Description: "Gemini 1.5 Flash", InputCostPer1K: 0.000075, OutputCostPer1K: 0.0003},
}

// Catalog maps model IDs to their pricing and provider.
type Catalog struct {
	mu     sync.RWMutex
	models map[string]ModelInfo
}

// NewCatalog returns a catalog seeded with the built-in models.
func NewCatalog() *Catalog {
	c := &Catalog{models: make(map[string]ModelInfo, len(builtinModels))}
	for _, m := range builtinModels {
		c.models[m.ID] = m
	}
	return c
}

// Add inserts or replaces a model entry.
func (c *Catalog) Add(m ModelInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[m.ID] = m
}

// Lookup returns the model entry. Unknown models get the default per-1K cost.
func (c *Catalog) Lookup(id string) (ModelInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.models[id]; ok {
		return m, true
	}
	return ModelInfo{ID: id, InputCostPer1K: defaultCostPer1K, OutputCostPer1K: defaultCostPer1K}, false
}

// List returns every known model sorted by provider, then ID.
func (c *Catalog) List() []ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ModelInfo, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].ID < out[j].ID
	})
	return out
}
