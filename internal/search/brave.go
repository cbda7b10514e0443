// Package search queries the Brave web-search API for short text snippets
// the activity suggester can ground its recommendations in.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/dileep-u-k/weather-agent/internal/resilience"
)

const (
	braveAPIURL = "https://api.search.brave.com/res/v1/web/search"
	resultCount = 3
)

// Searcher returns the top snippet for a query. ok is false when nothing usable came back.
type Searcher interface {
	Search(ctx context.Context, query string) (snippet string, ok bool)
}

// BraveClient calls the Brave Search API.
type BraveClient struct {
	apiKey   string
	endpoint string
	httpCfg  resilience.HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

var _ Searcher = (*BraveClient)(nil)

// NewBraveClient creates a search client. A nil http.Client gets a 20s timeout.
func NewBraveClient(client *http.Client, apiKey string) (*BraveClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Brave API key cannot be empty")
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &BraveClient{
		apiKey:   apiKey,
		endpoint: braveAPIURL,
		httpCfg: resilience.HTTPClientConfig{
			Client: client,
			// A rate-limited search gets exactly one bounded retry.
			Backoff: resilience.BackoffConfig{MaxRetries: 1, InitialInterval: time.Second, MaxInterval: 2 * time.Second},
		},
		circuit: resilience.NewBreaker("brave-search"),
	}, nil
}

// WithEndpoint points the client at a different search URL.
func (c *BraveClient) WithEndpoint(u string) *BraveClient {
	c.endpoint = u
	return c
}

// WithBackoff overrides the retry policy.
func (c *BraveClient) WithBackoff(b resilience.BackoffConfig) *BraveClient {
	c.httpCfg.Backoff = b
	return c
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns the description of the first web result.
func (c *BraveClient) Search(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	buildRequest := func() (*http.Request, error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("count", fmt.Sprint(resultCount))
		req, err := http.NewRequest(http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", c.apiKey)
		return req, nil
	}

	resp, err := resilience.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("⚠️ web search failed")
		return "", false
	}
	defer resp.Body.Close()

	var payload braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("⚠️ failed to parse search response")
		return "", false
	}
	if len(payload.Web.Results) == 0 {
		log.Debug().Str("query", query).Msg("🔍 search returned no results")
		return "", false
	}

	snippet := CleanSnippet(payload.Web.Results[0].Description)
	if snippet == "" {
		return "", false
	}
	return snippet, true
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanSnippet removes HTML markup (Brave wraps matches in <strong>) and
// decodes entities.
func CleanSnippet(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
