// In file: internal/llm/generator.go
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Completion is the text produced by one operation together with its ledger entry.
type Completion struct {
	Text   string
	Record CallRecord
}

// Generator runs operations against a single model, applying the operation's
// settings and recording every call in the ledger.
type Generator struct {
	client     LLMClient
	model      ModelInfo
	operations OperationTable
	ledger     *Ledger
}

// NewGenerator wires a client to a model entry, an operation table and a ledger.
func NewGenerator(client LLMClient, model ModelInfo, operations OperationTable, ledger *Ledger) *Generator {
	if operations == nil {
		operations = DefaultOperationSettings()
	}
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Generator{client: client, model: model, operations: operations, ledger: ledger}
}

// Model returns the model entry in use.
func (g *Generator) Model() ModelInfo { return g.model }

// Ledger returns the ledger the generator records into.
func (g *Generator) Ledger() *Ledger { return g.ledger }

// Generate sends prompt as a single user message using op's settings. Failed
// calls are not recorded.
func (g *Generator) Generate(ctx context.Context, prompt string, op Operation) (*Completion, error) {
	return g.GenerateMessages(ctx, []Message{{Role: RoleUser, Content: prompt}}, op)
}

// GenerateMessages is Generate for a prepared message list.
func (g *Generator) GenerateMessages(ctx context.Context, messages []Message, op Operation) (*Completion, error) {
	settings := g.operations.For(op)
	cfg := &GenerationConfig{
		Model:       g.model.ID,
		Temperature: Float32(settings.Temperature),
		MaxTokens:   settings.MaxTokens,
	}

	res, err := g.client.Generate(ctx, messages, cfg)
	if err != nil {
		log.Warn().Err(err).Str("operation", string(op)).Str("model", g.model.ID).Msg("❌ LLM call failed")
		return nil, fmt.Errorf("llm %s: %w", op, err)
	}

	rec := CallRecord{
		Operation:    op,
		Model:        g.model.ID,
		InputTokens:  res.Usage.PromptTokens,
		OutputTokens: res.Usage.CompletionTokens,
	}
	if res.Usage.IsZero() {
		for _, m := range messages {
			rec.InputTokens += EstimateTokens(m.Content)
		}
		rec.OutputTokens = EstimateTokens(res.Content)
		rec.Estimated = true
	}
	rec.Cost = g.model.Cost(rec.InputTokens, rec.OutputTokens)
	g.ledger.Record(rec)
	rec, _ = g.ledger.Last()

	log.Debug().
		Str("operation", string(op)).
		Int("input_tokens", rec.InputTokens).
		Int("output_tokens", rec.OutputTokens).
		Float64("cost", rec.Cost).
		Msg("🧾 LLM call recorded")

	return &Completion{Text: res.Content, Record: rec}, nil
}
