// In file: internal/llm/constants.go
package llm

import "time"

// Constants shared by the HTTP-based provider clients.
const (
	defaultTimeout    = 120 * time.Second
	maxRetries        = 3
	initialRetryDelay = 2 * time.Second
	defaultMaxTokens  = 512

	// charsPerToken is the rough ratio used when a provider does not report usage.
	charsPerToken = 4
)
