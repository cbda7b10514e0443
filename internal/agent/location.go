// In file: internal/agent/location.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/llm"
)

// minConfidence is the verification confidence above which the LLM's city is
// taken as is.
const minConfidence = 0.7

// cityHintPatterns are tried in order against the raw query. The first
// capture group is the candidate.
var cityHintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:in|at|for|near|around)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*?)\s+(?:weather|temperature|forecast)`),
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s*[A-Z]{2}\b`),
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// CityVerification is the JSON the LLM answers verify_city with.
type CityVerification struct {
	IsValid        bool     `json:"is_valid"`
	City           string   `json:"city"`
	Country        string   `json:"country"`
	Alternates     []string `json:"alternates"`
	Confidence     float64  `json:"confidence"`
	Disambiguation string   `json:"disambiguation"`
}

// Resolver finds the city a query is about. Every resolution ends with an
// LLM verification call, whether or not a pattern matched.
type Resolver struct {
	gen activity.Generator
}

func NewResolver(gen activity.Generator) *Resolver {
	return &Resolver{gen: gen}
}

// CityHint returns the title-cased pattern candidate from query, if any.
func CityHint(query string) (string, bool) {
	for _, re := range cityHintPatterns {
		if m := re.FindStringSubmatch(query); m != nil {
			return titleCase(m[1]), true
		}
	}
	return "", false
}

// Resolve returns the verified city name, or false when there is none.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	input := query
	if hint, ok := CityHint(query); ok {
		log.Debug().Str("candidate", hint).Msg("🔎 Pattern matched a city candidate")
		input = hint
	}

	log.Info().Msg("🤔 Verifying the city name with the language model...")
	completion, err := r.gen.Generate(ctx, verifyCityPrompt(input), llm.OpVerifyCity)
	if err != nil {
		log.Warn().Err(err).Msg("❌ Could not verify city name")
		return "", false
	}

	v, err := ParseVerification(completion.Text)
	if err != nil {
		log.Warn().Err(err).Msg("❌ Could not parse city validation response")
		return "", false
	}
	return decide(v)
}

// decide applies the acceptance policy to a verification.
func decide(v CityVerification) (string, bool) {
	city := strings.TrimSpace(v.City)
	switch {
	case v.IsValid && v.Confidence > minConfidence && city != "":
		ev := log.Info().Str("city", city).Str("country", v.Country)
		if len(v.Alternates) > 0 {
			ev = ev.Strs("also_in", v.Alternates)
		}
		if v.Disambiguation != "" {
			ev = ev.Str("context", v.Disambiguation)
		}
		ev.Msg("✅ Verified city")
		return city, true
	case v.IsValid && len(v.Alternates) > 0 && city != "":
		log.Warn().
			Str("city", city).
			Str("country", v.Country).
			Strs("alternates", v.Alternates).
			Msg("⚠️ Ambiguous city name, using the primary country")
		return city, true
	default:
		ev := log.Info()
		if v.Disambiguation != "" {
			ev = ev.Str("note", v.Disambiguation)
		}
		ev.Msg("❌ Invalid or unknown city name")
		return "", false
	}
}

// ParseVerification decodes the LLM's answer, tolerating a markdown code fence
// around the JSON.
func ParseVerification(text string) (CityVerification, error) {
	text = strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	var v CityVerification
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return CityVerification{}, fmt.Errorf("decode city verification: %w", err)
	}
	return v, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func verifyCityPrompt(location string) string {
	return fmt.Sprintf(`Analyze the location '%s' and provide information in the following JSON format:
{
  "is_valid": true/false,
  "city": "Correct city name with proper capitalization",
  "country": "Primary country where this city is located",
  "alternates": ["Country1", "Country2"],  // If same city name exists in multiple countries
  "confidence": 0.0-1.0,  // How confident in this identification
  "disambiguation": "Additional context if needed"
}

Example response:
{
  "is_valid": true,
  "city": "Cambridge",
  "country": "United Kingdom",
  "alternates": ["United States"],
  "confidence": 0.9,
  "disambiguation": "Major cities named Cambridge exist in both the UK and USA (Massachusetts)"
}

Provide only the JSON response, no additional text.`, location)
}
