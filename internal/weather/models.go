package weather

import (
	"fmt"
	"strings"
)

// Condition is a normalized high-level weather condition derived from the
// provider's free-text description.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// UnavailableConditions is the description carried by the unknown reading.
const UnavailableConditions = "Could not retrieve weather data"

// Reading is a single current-weather observation for a city.
//
// A Reading with Unavailable set is the sentinel returned when the provider
// could not be reached or answered with something unusable; its numeric
// fields are meaningless and render as "unknown".
type Reading struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	Conditions   string  `json:"conditions"`
	Unavailable  bool    `json:"unavailable,omitempty"`
}

// UnknownReading returns the sentinel reading.
func UnknownReading() Reading {
	return Reading{Conditions: UnavailableConditions, Unavailable: true}
}

// Known reports whether the reading carries real data.
func (r Reading) Known() bool { return !r.Unavailable }

// Temperature renders the temperature without unit, or "unknown".
func (r Reading) Temperature() string {
	if r.Unavailable {
		return "unknown"
	}
	return FormatNumber(r.TemperatureC)
}

// Humidity renders the humidity percentage without unit, or "unknown".
func (r Reading) Humidity() string {
	if r.Unavailable {
		return "unknown"
	}
	return FormatNumber(r.HumidityPct)
}

// Condition classifies the reading's description.
func (r Reading) Condition() Condition {
	if r.Unavailable {
		return ConditionUnknown
	}
	return ClassifyCondition(r.Conditions)
}

// ForecastDay summarizes one calendar day of a forecast in the city's local time.
type ForecastDay struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	MinTempC    float64 `json:"min_temp_c"`
	MaxTempC    float64 `json:"max_temp_c"`
	Conditions  string  `json:"conditions"`
	HumidityPct float64 `json:"humidity_pct"`
}

// MeanTempC is the midpoint of the day's range.
func (d ForecastDay) MeanTempC() float64 {
	return (d.MinTempC + d.MaxTempC) / 2
}

// Reading converts the day into a reading usable for activity framing.
func (d ForecastDay) Reading() Reading {
	return Reading{TemperatureC: d.MeanTempC(), HumidityPct: d.HumidityPct, Conditions: d.Conditions}
}

// Forecast is an ordered list of days, ascending by date. Index 0 is the
// current local day of the city.
type Forecast []ForecastDay

// ClassifyCondition maps a provider description to a normalized condition.
func ClassifyCondition(text string) Condition {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ConditionUnknown
	case strings.Contains(t, "thunder") || strings.Contains(t, "storm"):
		return ConditionStorm
	case strings.Contains(t, "rain") || strings.Contains(t, "shower") || strings.Contains(t, "drizzle"):
		return ConditionRain
	case strings.Contains(t, "snow") || strings.Contains(t, "sleet") || strings.Contains(t, "blizzard"):
		return ConditionSnow
	case strings.Contains(t, "mist") || strings.Contains(t, "fog") || strings.Contains(t, "haze"):
		return ConditionMist
	case strings.Contains(t, "cloud") || strings.Contains(t, "overcast"):
		return ConditionCloudy
	case strings.Contains(t, "clear") || strings.Contains(t, "sunny"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// FormatNumber prints whole numbers without a decimal part and everything
// else with one decimal.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
