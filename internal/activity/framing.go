// Package activity recommends one weather-appropriate attraction for a city
// by combining LLM-generated search terms, a web search and an LLM synthesis
// step, with deterministic fallbacks at every stage.
package activity

import (
	"strings"

	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// Setting is where a suggested activity should take place.
type Setting string

const (
	SettingIndoor  Setting = "indoor"
	SettingOutdoor Setting = "outdoor"
	SettingAny     Setting = "must-see"
)

// Parenthetical notes appended to a suggestion.
const (
	noteIndoorHot = " (an air-conditioned venue perfect for hot weather)"
	noteIndoor    = " (perfect indoor activity for this weather)"
	noteOutdoor   = " (great weather for outdoor activities)"
)

// Framing is the weather context that steers search terms and the final note.
type Framing struct {
	Label   string  `json:"label"`
	Setting Setting `json:"setting"`
	// Keywords are used as search terms when the LLM cannot produce any.
	Keywords string `json:"keywords"`
	Note     string `json:"note"`
}

// Classify applies the indoor/outdoor thresholds, first match wins:
// rain or storm, snow, above 30°C, below 5°C, clear between 15 and 25°C.
func Classify(r weather.Reading) Framing {
	cond := strings.ToLower(r.Conditions)
	temp := r.TemperatureC

	switch {
	case strings.Contains(cond, "rain") || strings.Contains(cond, "storm"):
		return Framing{Label: "rainy day", Setting: SettingIndoor, Keywords: "indoor museum gallery theater covered", Note: noteIndoor}
	case strings.Contains(cond, "snow"):
		return Framing{Label: "snow day", Setting: SettingIndoor, Keywords: "winter indoor cozy museum", Note: noteIndoor}
	case temp > 30:
		return Framing{Label: "escape the heat", Setting: SettingIndoor, Keywords: "air-conditioned indoor aquarium mall", Note: noteIndoorHot}
	case temp < 5:
		return Framing{Label: "warm up", Setting: SettingIndoor, Keywords: "indoor warm cozy museum cafe", Note: noteIndoor}
	case strings.Contains(cond, "clear") && temp >= 15 && temp <= 25:
		return Framing{Label: "nice weather", Setting: SettingOutdoor, Keywords: "outdoor park garden walking sightseeing", Note: noteOutdoor}
	default:
		return Framing{Label: "popular", Setting: SettingAny, Keywords: "must visit famous landmarks"}
	}
}
