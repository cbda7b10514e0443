// In file: internal/tools/activity_tool.go
package tools

import (
	"context"
	"fmt"

	"github.com/dileep-u-k/weather-agent/internal/activity"
	"github.com/dileep-u-k/weather-agent/internal/weather"
)

const ToolActivitySuggestion = "get_activity_suggestion"

// ActivitySuggester is what get_activity_suggestion delegates to.
type ActivitySuggester interface {
	Suggest(ctx context.Context, city string, reading weather.Reading, isForecast bool) (*activity.Suggestion, error)
}

// NewActivityTool binds get_activity_suggestion. The result is an
// *activity.Suggestion, nil when nothing suitable was found.
func NewActivityTool(suggester ActivitySuggester) Descriptor {
	return Descriptor{
		Name:        ToolActivitySuggestion,
		Description: "Suggest one weather-appropriate attraction in a city",
		Category:    CategoryDataProcessing,
		Parameters: map[string]*JSONSchema{
			"city":        {Type: "string", Description: "City name"},
			"weather":     {Type: "object", Description: "Weather reading with temperature and conditions"},
			"is_forecast": {Type: "boolean", Description: "Whether the weather is a forecast rather than current"},
		},
		Required: []string{"city", "weather"},
		Func: func(ctx context.Context, params Params) (any, error) {
			city, err := requireCity(params)
			if err != nil {
				return nil, err
			}
			var reading weather.Reading
			switch w := params["weather"].(type) {
			case weather.Reading:
				reading = w
			case *weather.Reading:
				if w == nil {
					return nil, fmt.Errorf("weather cannot be nil")
				}
				reading = *w
			default:
				return nil, fmt.Errorf("weather must be a weather.Reading, got %T", w)
			}
			isForecast, _ := params.Bool("is_forecast")
			return suggester.Suggest(ctx, city, reading, isForecast)
		},
	}
}
