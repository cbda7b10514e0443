// In file: internal/agent/forecast.go
package agent

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/weather"
)

const dateLayout = "2006-01-02"

// Alternation order matters: longer phrases must precede their prefixes.
var timePhrasePattern = regexp.MustCompile(`(?i)\b(this weekend|next weekend|weekend|next week|tomorrow|upcoming|future|next)\b`)

// Horizon is the span of days a forecast answer covers.
type Horizon string

const (
	HorizonWeekend  Horizon = "weekend"
	HorizonWeek     Horizon = "week"
	HorizonTomorrow Horizon = "tomorrow"
	HorizonDays     Horizon = "days"
)

// ForecastPlan is what to request from the forecast tool and how to read it back.
type ForecastPlan struct {
	Phrase   string
	Horizon  Horizon
	Days     int
	Saturday string // YYYY-MM-DD, weekend plans only
	Sunday   string
	Tomorrow string // YYYY-MM-DD, tomorrow plans only
}

// DaysToSaturday counts days from now to the coming Saturday. On a Saturday
// at or after 18:00 the next weekend is meant.
func DaysToSaturday(now time.Time) int {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 && now.Hour() >= 18 {
		days = 7
	}
	return days
}

// PlanForecast derives the request size from the time phrase in query.
// Index 0 of every forecast is today, so spans reaching past today request
// the extra leading day.
func PlanForecast(query string, now time.Time) ForecastPlan {
	plan := ForecastPlan{Phrase: "the future"}
	if m := timePhrasePattern.FindStringSubmatch(query); m != nil {
		plan.Phrase = strings.ToLower(m[1])
	}

	switch {
	case strings.Contains(plan.Phrase, "weekend"):
		d := DaysToSaturday(now)
		sat := now.AddDate(0, 0, d)
		plan.Horizon = HorizonWeekend
		plan.Days = d + 2
		plan.Saturday = sat.Format(dateLayout)
		plan.Sunday = sat.AddDate(0, 0, 1).Format(dateLayout)
	case strings.Contains(plan.Phrase, "week"):
		plan.Horizon = HorizonWeek
		plan.Days = 7
	case plan.Phrase == "tomorrow":
		plan.Horizon = HorizonTomorrow
		plan.Days = 2
		plan.Tomorrow = now.AddDate(0, 0, 1).Format(dateLayout)
	default:
		plan.Horizon = HorizonDays
		plan.Days = 5
	}
	return plan
}

// LabelledDay is a forecast day with the name it is reported under.
type LabelledDay struct {
	Day   weather.ForecastDay
	Label string
}

// SelectWeekend picks the Saturday and Sunday entries out of f. When the
// exact dates are missing it degrades deterministically: neighbouring days
// stand in for a missing half, and with no match at all the first days are
// used.
func SelectWeekend(f weather.Forecast, plan ForecastPlan) []LabelledDay {
	var out []LabelledDay
	satIdx, sunIdx := -1, -1
	for i, d := range f {
		switch d.Date {
		case plan.Saturday:
			satIdx = i
			out = append(out, LabelledDay{Day: d, Label: "Saturday"})
		case plan.Sunday:
			sunIdx = i
			out = append(out, LabelledDay{Day: d, Label: "Sunday"})
		}
	}
	if len(out) >= 2 {
		return out
	}

	log.Warn().
		Str("saturday", plan.Saturday).
		Str("sunday", plan.Sunday).
		Int("days", len(f)).
		Msg("⚠️ Could not find exact weekend dates in forecast data, using available days")

	switch {
	case len(out) == 0 && len(f) >= 2:
		return []LabelledDay{{Day: f[0], Label: "Saturday"}, {Day: f[1], Label: "Sunday"}}
	case len(out) == 0 && len(f) == 1:
		return []LabelledDay{{Day: f[0], Label: "Weekend"}}
	case satIdx >= 0 && satIdx+1 < len(f):
		return append(out, LabelledDay{Day: f[satIdx+1], Label: "Sunday"})
	case sunIdx > 0:
		return append([]LabelledDay{{Day: f[sunIdx-1], Label: "Saturday"}}, out...)
	}
	return out
}

// SelectTomorrow returns the entry dated tomorrow, or the last entry.
func SelectTomorrow(f weather.Forecast, plan ForecastPlan) weather.ForecastDay {
	for _, d := range f {
		if d.Date == plan.Tomorrow {
			return d
		}
	}
	log.Warn().Str("tomorrow", plan.Tomorrow).Msg("⚠️ Tomorrow's date not in forecast data, using the last day")
	return f[len(f)-1]
}

// composeForecast renders the answer for a non-empty forecast and returns the
// day whose weather drives the activity suggestion.
func composeForecast(city string, f weather.Forecast, plan ForecastPlan) (string, weather.ForecastDay) {
	var b strings.Builder
	switch plan.Horizon {
	case HorizonWeekend:
		days := SelectWeekend(f, plan)
		fmt.Fprintf(&b, "Weather forecast for %s this weekend:\n\n", city)
		for _, ld := range days {
			fmt.Fprintf(&b, "• %s (%s): %s°C to %s°C, %s\n",
				ld.Day.Date, ld.Label, weather.FormatNumber(ld.Day.MinTempC), weather.FormatNumber(ld.Day.MaxTempC), ld.Day.Conditions)
		}
		return b.String(), days[0].Day
	case HorizonTomorrow:
		d := SelectTomorrow(f, plan)
		fmt.Fprintf(&b, "Weather forecast for %s tomorrow (%s):\n", city, d.Date)
		fmt.Fprintf(&b, "Temperature: %s°C to %s°C\n", weather.FormatNumber(d.MinTempC), weather.FormatNumber(d.MaxTempC))
		fmt.Fprintf(&b, "Conditions: %s\n", d.Conditions)
		fmt.Fprintf(&b, "Humidity: %s%%", weather.FormatNumber(d.HumidityPct))
		return b.String(), d
	default:
		fmt.Fprintf(&b, "Weather forecast for %s for the next %d days:\n\n", city, len(f))
		for _, d := range f {
			fmt.Fprintf(&b, "• %s: %s°C to %s°C, %s\n",
				d.Date, weather.FormatNumber(d.MinTempC), weather.FormatNumber(d.MaxTempC), d.Conditions)
		}
		return b.String(), f[0]
	}
}
