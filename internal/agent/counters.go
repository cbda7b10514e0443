// In file: internal/agent/counters.go
package agent

import (
	"context"
	"sync/atomic"

	"github.com/dileep-u-k/weather-agent/internal/search"
)

// Counters tracks outbound calls to the weather and search APIs for the session.
type Counters struct {
	weather  atomic.Int64
	forecast atomic.Int64
	search   atomic.Int64
}

// CallCounts is a snapshot of Counters plus the LLM calls from the ledger.
type CallCounts struct {
	Weather  int `json:"weather"`
	Forecast int `json:"forecast"`
	Search   int `json:"search"`
	LLM      int `json:"llm"`
	Total    int `json:"total"`
}

// CountSearches wraps s so every search it performs is counted.
func (c *Counters) CountSearches(s search.Searcher) search.Searcher {
	return &countingSearcher{next: s, n: &c.search}
}

func (c *Counters) snapshot(llmCalls int) CallCounts {
	cc := CallCounts{
		Weather:  int(c.weather.Load()),
		Forecast: int(c.forecast.Load()),
		Search:   int(c.search.Load()),
		LLM:      llmCalls,
	}
	cc.Total = cc.Weather + cc.Forecast + cc.Search + cc.LLM
	return cc
}

type countingSearcher struct {
	next search.Searcher
	n    *atomic.Int64
}

func (s *countingSearcher) Search(ctx context.Context, query string) (string, bool) {
	s.n.Add(1)
	return s.next.Search(ctx, query)
}
