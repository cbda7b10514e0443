package activity

import (
	"regexp"
	"strings"
)

// boilerplate marks snippet fragments that are page chrome, not attractions.
var boilerplate = []string{"welcome to", "official website", "contact us", "things to do", "attractions in"}

const (
	capWord    = `[A-Z][A-Za-z'’\-]+`
	capPhrase  = capWord + `(?:\s+(?:of\s+|the\s+|de\s+)?` + capWord + `)*`
	venueWords = `(?:Museum|Park|Garden|Bridge|Tower|Palace|Castle|Square|Market|Aquarium|Gallery|Theater|Theatre|Centre|Center|Mall)s?`
)

// Ordered extraction patterns: a phrase led by an activity verb, a phrase
// ending in a venue word, then any capitalized multi-word phrase.
var attractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:visit|explore|enjoy|see)\s+(?i:the\s+)?(` + capPhrase + `)`),
	regexp.MustCompile(`((?:` + capWord + `\s+)+` + venueWords + `(?:\s+of(?:\s+the)?(?:\s+` + capWord + `)+)?)\b`),
	regexp.MustCompile(`\b(` + capWord + `(?:\s+` + capWord + `)+)\b`),
}

// KnownAttractions is the last-resort table used when nothing can be
// extracted from search results.
var KnownAttractions = map[string]string{
	"london":   "British Museum",
	"dubai":    "Dubai Mall",
	"seattle":  "Space Needle",
	"tokyo":    "Tokyo Skytree",
	"new york": "Metropolitan Museum of Art",
	"paris":    "Louvre Museum",
}

// IsBoilerplate reports whether text contains a page-chrome phrase.
func IsBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, b := range boilerplate {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// ExtractAttraction pulls an attraction name out of a search snippet.
// Candidates that are boilerplate or merely the city name are skipped.
func ExtractAttraction(snippet, city string) (string, bool) {
	for _, re := range attractionPatterns {
		for _, m := range re.FindAllStringSubmatch(snippet, -1) {
			if name, ok := acceptCandidate(m[1], city); ok {
				return name, true
			}
		}
	}
	return "", false
}

// acceptCandidate normalizes a candidate name and applies the rejection rules.
func acceptCandidate(raw, city string) (string, bool) {
	name := cleanName(raw)
	for _, article := range []string{"The ", "A ", "An "} {
		name = strings.TrimPrefix(name, article)
	}
	if name == "" || len(name) > 80 {
		return "", false
	}
	if IsBoilerplate(name) {
		return "", false
	}
	bare := strings.TrimSuffix(strings.TrimSuffix(name, "'s"), "’s")
	if strings.EqualFold(bare, strings.TrimSpace(city)) {
		return "", false
	}
	return name, true
}

// cleanName strips markdown and punctuation the LLM or a snippet wraps names in.
func cleanName(s string) string {
	s = strings.Trim(s, " \t*_\"'`[]")
	s = strings.TrimRight(s, ".!,;: \t*_\"'`[]")
	return strings.Join(strings.Fields(s), " ")
}

// knownAttraction looks the city up in KnownAttractions.
func knownAttraction(city string) (string, bool) {
	name, ok := KnownAttractions[strings.ToLower(strings.TrimSpace(city))]
	return name, ok
}
