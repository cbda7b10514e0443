// In file: internal/llm/helpers.go

// Package llm contains the LLM client collaborator of the weather agent:
// provider clients, per-operation generation settings, the model cost catalog
// and the usage ledger that records every call.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrTimeout is returned when an LLM call exceeds its deadline.
var ErrTimeout = errors.New("llm request timed out")

// APIError describes a non-2xx response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// retryingPoster sends JSON payloads with the retry policy shared by all
// HTTP-based provider clients: up to maxRetries attempts, doubling delay,
// no retry on 4xx.
type retryingPoster struct {
	provider   string
	httpClient *http.Client
	retryDelay time.Duration
}

func newRetryingPoster(provider string) retryingPoster {
	return retryingPoster{
		provider:   provider,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryDelay: initialRetryDelay,
	}
}

// post performs the HTTP call. newRequest is invoked once per attempt so the
// body can be re-read on retry.
func (p retryingPoster) post(ctx context.Context, payload []byte, newRequest func(ctx context.Context, body io.Reader) (*http.Request, error)) ([]byte, error) {
	var lastErr error
	delay := p.retryDelay

	for i := 0; i < maxRetries; i++ {
		req, err := newRequest(ctx, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create http request: %w", err)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			if isTimeout(ctx, err) {
				return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, p.provider, err)
			}
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", i+1, maxRetries, err)
		} else {
			body, readErr := io.ReadAll(resp.Body)
			if cerr := resp.Body.Close(); cerr != nil {
				log.Warn().Err(cerr).Str("provider", p.provider).Msg("⚠️ failed to close response body")
			}
			if readErr != nil {
				return nil, fmt.Errorf("failed to read response body: %w", readErr)
			}
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return body, nil
			}
			lastErr = &APIError{Provider: p.provider, StatusCode: resp.StatusCode, Body: string(body)}
			// Do not retry on client errors (e.g., 400 Bad Request).
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
		}

		if i == maxRetries-1 {
			break
		}
		log.Debug().Err(lastErr).Str("provider", p.provider).Dur("backoff", delay).Msg("🔁 retrying LLM request")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, p.provider, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// EstimateTokens approximates a token count from text length. It is used when
// a provider omits usage metadata.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / charsPerToken
	if n == 0 {
		n = 1
	}
	return n
}
