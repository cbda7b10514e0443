package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownReadingRendersUnknown(t *testing.T) {
	r := UnknownReading()
	assert.False(t, r.Known())
	assert.Equal(t, "unknown", r.Temperature())
	assert.Equal(t, "unknown", r.Humidity())
	assert.Equal(t, UnavailableConditions, r.Conditions)
	assert.Equal(t, ConditionUnknown, r.Condition())
}

func TestReadingFormatting(t *testing.T) {
	r := Reading{TemperatureC: 18, HumidityPct: 62.3, Conditions: "scattered clouds"}
	assert.True(t, r.Known())
	assert.Equal(t, "18", r.Temperature())
	assert.Equal(t, "62.3", r.Humidity())
	assert.Equal(t, ConditionCloudy, r.Condition())
	assert.Equal(t, "-3.5", FormatNumber(-3.5))
}

func TestClassifyCondition(t *testing.T) {
	cases := map[string]Condition{
		"Thunderstorm with rain": ConditionStorm,
		"light rain":             ConditionRain,
		"Patchy light drizzle":   ConditionRain,
		"Heavy snow":             ConditionSnow,
		"Mist":                   ConditionMist,
		"overcast clouds":        ConditionCloudy,
		"Sunny":                  ConditionClear,
		"clear sky":              ConditionClear,
		"":                       ConditionUnknown,
		"volcanic ash":           ConditionUnknown,
	}
	for text, want := range cases {
		assert.Equal(t, want, ClassifyCondition(text), text)
	}
}

func TestForecastDayReading(t *testing.T) {
	d := ForecastDay{Date: "2024-05-04", MinTempC: 10, MaxTempC: 15, Conditions: "light rain", HumidityPct: 80}
	r := d.Reading()
	assert.Equal(t, 12.5, r.TemperatureC)
	assert.Equal(t, "light rain", r.Conditions)
	assert.True(t, r.Known())
}
