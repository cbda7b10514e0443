// In file: internal/agent/intent.go

// Package agent turns a free-text weather question into tool calls and a
// composed answer.
package agent

import "regexp"

// Intent is what kind of weather information a query asks for.
type Intent string

const (
	IntentCurrent  Intent = "current"
	IntentHistory  Intent = "history"
	IntentForecast Intent = "forecast"
)

// IntentRule maps a pattern to an intent.
type IntentRule struct {
	Pattern *regexp.Regexp
	Result  Intent
}

// DefaultIntentRules are evaluated in order; the first match wins.
var DefaultIntentRules = []IntentRule{
	{Pattern: regexp.MustCompile(`(?i)\b(current|now|today)\b`), Result: IntentCurrent},
	{Pattern: regexp.MustCompile(`(?i)\b(history|last week|past)\b`), Result: IntentHistory},
	{Pattern: regexp.MustCompile(`(?i)\b(forecast|tomorrow|next|upcoming|this weekend|next week|future)\b`), Result: IntentForecast},
}

// DetectIntent classifies query with rules, defaulting to current weather.
func DetectIntent(rules []IntentRule, query string) (Intent, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(query) {
			return r.Result, true
		}
	}
	return IntentCurrent, false
}
