// In file: internal/tools/search_tool.go
package tools

import (
	"context"

	"github.com/dileep-u-k/weather-agent/internal/search"
)

const ToolWebSearch = "web_search"

// SearchResult is the value returned by web_search.
type SearchResult struct {
	Query   string `json:"query"`
	Snippet string `json:"snippet,omitempty"`
	Found   bool   `json:"found"`
}

// NewWebSearchTool binds web_search to a search client.
func NewWebSearchTool(searcher search.Searcher) Descriptor {
	return Descriptor{
		Name:        ToolWebSearch,
		Description: "Search the web and return the top result's description",
		Category:    CategoryExternalAPI,
		Parameters: map[string]*JSONSchema{
			"query": {Type: "string", Description: "Search query"},
		},
		Required: []string{"query"},
		Func: func(ctx context.Context, params Params) (any, error) {
			query, _ := params.String("query")
			snippet, found := searcher.Search(ctx, query)
			return SearchResult{Query: query, Snippet: snippet, Found: found}, nil
		},
	}
}
