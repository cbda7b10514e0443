// In file: internal/llm/operations.go
package llm

// Operation names a purpose-specific LLM call. Each operation carries its own
// temperature and token budget.
type Operation string

const (
	OpVerifyCity      Operation = "verify_city"
	OpExtractCity     Operation = "extract_city"
	OpSuggestActivity Operation = "suggest_activity"
	OpSearchTerms     Operation = "search_terms"
	OpGenerate        Operation = "generate"
)

// OperationSettings are the generation parameters applied to one operation.
type OperationSettings struct {
	Temperature float32 `yaml:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" validate:"gt=0"`
}

// OperationTable maps operations to their settings.
type OperationTable map[Operation]OperationSettings

// DefaultOperationSettings returns the built-in operation table.
func DefaultOperationSettings() OperationTable {
	return OperationTable{
		OpVerifyCity:      {Temperature: 0.1, MaxTokens: 100},
		OpExtractCity:     {Temperature: 0.3, MaxTokens: 150},
		OpSuggestActivity: {Temperature: 0.2, MaxTokens: 250},
		OpSearchTerms:     {Temperature: 0.3, MaxTokens: 30},
		OpGenerate:        {Temperature: 0.7, MaxTokens: 512},
	}
}

// For returns the settings of op, falling back to the generate settings for
// operations the table does not know.
func (t OperationTable) For(op Operation) OperationSettings {
	if s, ok := t[op]; ok {
		return s
	}
	if s, ok := t[OpGenerate]; ok {
		return s
	}
	return DefaultOperationSettings()[OpGenerate]
}

// Merge overlays overrides onto a copy of t.
func (t OperationTable) Merge(overrides OperationTable) OperationTable {
	out := make(OperationTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
