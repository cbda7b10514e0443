// Package api holds the wire types shared between the agent core and its
// outer surfaces (the CLI and the HTTP server).
package api

// Usage reports token consumption for a single LLM call or an aggregate of calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another Usage into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// IsZero reports whether no token counts were recorded.
func (u Usage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// QueryRequest is the body accepted by POST /api/v1/query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// QueryResponse is returned for every processed query, including the
// clarification and apology paths.
type QueryResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
	City     string `json:"city,omitempty"`
	Outcome  string `json:"outcome"`
	State    string `json:"state"`
}

// ErrorResponse is the JSON body for request-level failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
