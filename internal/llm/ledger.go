// In file: internal/llm/ledger.go
package llm

import (
	"sort"
	"sync"
	"time"
)

// CallRecord is one LLM invocation as seen by the ledger. Records are never mutated.
type CallRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Operation    Operation `json:"operation"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	Estimated    bool      `json:"estimated,omitempty"`
}

// OperationTotals aggregates the records of a single operation.
type OperationTotals struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Summary is a point-in-time view of the ledger.
type Summary struct {
	SessionStart      time.Time                     `json:"session_start"`
	Duration          time.Duration                 `json:"duration"`
	TotalCalls        int                           `json:"total_calls"`
	TotalInputTokens  int                           `json:"total_input_tokens"`
	TotalOutputTokens int                           `json:"total_output_tokens"`
	TotalCost         float64                       `json:"total_cost"`
	ByOperation       map[Operation]OperationTotals `json:"by_operation"`
	Records           []CallRecord                  `json:"records,omitempty"`
}

// Operations returns the operation names of the summary in a stable order.
func (s Summary) Operations() []Operation {
	ops := make([]Operation, 0, len(s.ByOperation))
	for op := range s.ByOperation {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Ledger is the append-only, session-scoped record of LLM calls.
type Ledger struct {
	mu      sync.Mutex
	start   time.Time
	records []CallRecord
	now     func() time.Time
}

// NewLedger starts a new session ledger.
func NewLedger() *Ledger {
	return &Ledger{start: time.Now(), now: time.Now}
}

// Record appends a call record, stamping it if the timestamp is unset.
func (l *Ledger) Record(rec CallRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}
	l.records = append(l.records, rec)
}

// Len returns the number of recorded calls.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Last returns the most recent record.
func (l *Ledger) Last() (CallRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return CallRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// Summary aggregates all records. When detailed is set the individual records
// are copied into the result.
func (l *Ledger) Summary(detailed bool) Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{
		SessionStart: l.start,
		Duration:     l.now().Sub(l.start),
		TotalCalls:   len(l.records),
		ByOperation:  make(map[Operation]OperationTotals),
	}
	for _, r := range l.records {
		s.TotalInputTokens += r.InputTokens
		s.TotalOutputTokens += r.OutputTokens
		s.TotalCost += r.Cost

		t := s.ByOperation[r.Operation]
		t.Calls++
		t.InputTokens += r.InputTokens
		t.OutputTokens += r.OutputTokens
		t.Cost += r.Cost
		s.ByOperation[r.Operation] = t
	}
	if detailed {
		s.Records = append([]CallRecord(nil), l.records...)
	}
	return s
}
