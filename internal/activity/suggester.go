package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/search"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// ErrUnknownWeather is returned when asked to suggest for the unknown reading.
var ErrUnknownWeather = errors.New("cannot suggest an activity without weather data")

const maxSearchTermWords = 7

// Generator is the slice of the LLM client the suggester needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, op llm.Operation) (*llm.Completion, error)
}

// Source records how the attraction name was obtained.
type Source string

const (
	SourceLLM     Source = "llm"
	SourceSnippet Source = "snippet"
	SourceKnown   Source = "known"
)

// Suggestion is a single recommended attraction.
type Suggestion struct {
	Attraction    string  `json:"attraction"`
	Justification string  `json:"justification,omitempty"`
	Framing       Framing `json:"framing"`
	Query         string  `json:"query"`
	Snippet       string  `json:"snippet"`
	Source        Source  `json:"source"`
}

// Text renders the suggestion as appended to a weather answer.
func (s *Suggestion) Text() string {
	out := fmt.Sprintf("\n\n🎯 Recommended Activity: %s%s", s.Attraction, s.Framing.Note)
	if s.Justification != "" {
		out += "\n" + s.Justification
	}
	return out
}

// Suggester coordinates the search-term, search and synthesis stages.
type Suggester struct {
	gen      Generator
	searcher search.Searcher
}

func NewSuggester(gen Generator, searcher search.Searcher) *Suggester {
	return &Suggester{gen: gen, searcher: searcher}
}

// Suggest returns one attraction for city under the given weather, or nil
// when no search produced anything to work with. isForecast only changes
// the prompt wording.
func (s *Suggester) Suggest(ctx context.Context, city string, reading weather.Reading, isForecast bool) (*Suggestion, error) {
	if reading.Unavailable {
		return nil, ErrUnknownWeather
	}
	framing := Classify(reading)
	log.Info().Str("city", city).Str("framing", framing.Label).Msgf("🤔 Finding an activity for %s°C, %s", reading.Temperature(), reading.Conditions)

	terms := s.searchTerms(ctx, city, reading, framing)

	query, snippet, found := s.searchWithFallback(ctx, city, terms)
	if !found {
		log.Info().Str("city", city).Msg("❌ No search results for any fallback query")
		return nil, nil
	}

	sugg := &Suggestion{Framing: framing, Query: query, Snippet: snippet}

	completion, err := s.gen.Generate(ctx, synthesisPrompt(city, reading, isForecast, snippet), llm.OpSuggestActivity)
	if err == nil {
		name, justification := ParseRecommendation(completion.Text)
		if accepted, ok := acceptCandidate(name, city); ok {
			sugg.Attraction, sugg.Justification, sugg.Source = accepted, justification, SourceLLM
			return sugg, nil
		}
		log.Debug().Str("raw", completion.Text).Msg("LLM recommendation rejected, extracting from snippet")
	}

	if name, ok := ExtractAttraction(snippet, city); ok {
		sugg.Attraction, sugg.Source = name, SourceSnippet
		return sugg, nil
	}
	if name, ok := knownAttraction(city); ok {
		sugg.Attraction, sugg.Source = name, SourceKnown
		return sugg, nil
	}
	return nil, nil
}

// searchTerms asks the LLM for a short keyword list, falling back to the
// framing keywords when the call fails or returns nothing usable.
func (s *Suggester) searchTerms(ctx context.Context, city string, reading weather.Reading, framing Framing) string {
	completion, err := s.gen.Generate(ctx, searchTermsPrompt(city, reading), llm.OpSearchTerms)
	if err != nil {
		return framing.Keywords
	}
	terms := CleanSearchTerms(completion.Text)
	if terms == "" {
		return framing.Keywords
	}
	return terms
}

// searchWithFallback tries the generated query and then two generic ones.
// At most three searches are made.
func (s *Suggester) searchWithFallback(ctx context.Context, city, terms string) (query, snippet string, ok bool) {
	queries := []string{
		fmt.Sprintf("%s attractions %s", terms, city),
		fmt.Sprintf("most famous landmarks monuments museums attractions %s", city),
		fmt.Sprintf("tourist attractions %s", city),
	}
	for _, q := range queries {
		log.Info().Str("query", q).Msg("🔍 Searching")
		if hit, found := s.searcher.Search(ctx, q); found {
			return q, hit, true
		}
	}
	return "", "", false
}

// CleanSearchTerms keeps the first non-empty line, drops quotes and caps
// the result at seven words.
func CleanSearchTerms(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.NewReplacer(`"`, "", "'", "", "`", "", ",", " ").Replace(line)
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if len(words) > maxSearchTermWords {
			words = words[:maxSearchTermWords]
		}
		return strings.Join(words, " ")
	}
	return ""
}

// ParseRecommendation splits an LLM answer into the attraction named on the
// "Recommended Activity:" line and the justification that follows it.
func ParseRecommendation(text string) (name, justification string) {
	lines := strings.Split(strings.ReplaceAll(text, `\n`, "\n"), "\n")
	const marker = "recommended activity:"
	for i, line := range lines {
		idx := strings.Index(strings.ToLower(line), marker)
		if idx < 0 {
			continue
		}
		name = cleanName(line[idx+len(marker):])
		var rest []string
		for _, l := range lines[i+1:] {
			if l = strings.TrimSpace(strings.Trim(l, `"`)); l != "" {
				rest = append(rest, l)
			}
		}
		return name, strings.Join(rest, " ")
	}
	return "", ""
}

func searchTermsPrompt(city string, r weather.Reading) string {
	return fmt.Sprintf(`Given these weather conditions for %s:
- Temperature: %s°C
- Conditions: %s

Generate 3-5 search terms that would help find attractions suited to this weather.

Examples:
- Raining: indoor, museum, gallery, theater, covered
- Hot (>30°C): air-conditioned, indoor, aquarium, mall, shade
- Cold (<5°C): indoor, warm, cozy, museum, cafe
- Pleasant: outdoor, park, garden, walking, sightseeing

Respond with ONLY the search terms separated by spaces, at most 7 words.`, city, r.Temperature(), r.Conditions)
}

func synthesisPrompt(city string, r weather.Reading, isForecast bool, snippet string) string {
	timeContext := "for today's weather"
	planning := "This is the current weather, so the suggestion should be something a visitor can do right now."
	if isForecast {
		timeContext = "for the forecasted weather"
		planning = "This is a forecast, so the suggestion should help a visitor plan ahead."
	}
	return fmt.Sprintf(`You are a local from %[1]s who has lived there for many years and wants to impress a visiting tourist.

Using the weather and the search result below, suggest ONE specific attraction or activity in %[1]s that fits best %[2]s.

Weather: %[3]s°C, %[4]s
%[5]s

Search result about %[1]s:
%[6]s

Answer in exactly this format:
Recommended Activity: <the attraction>
<2-3 sentences on why it suits this weather>`, city, timeContext, r.Temperature(), r.Conditions, planning, snippet)
}
