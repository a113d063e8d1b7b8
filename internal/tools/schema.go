package tools

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

func locationProperty(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func unitsProperty() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "unit system (default: metric)",
		Enum:        []any{string(units.Metric), string(units.Imperial)},
	}
}

func daysProperty() *jsonschema.Schema {
	minDays, maxDays := float64(weather.MinForecastDays), float64(weather.MaxForecastDays)
	return &jsonschema.Schema{
		Type:        "integer",
		Description: "number of days to forecast (default: 5)",
		Minimum:     &minDays,
		Maximum:     &maxDays,
	}
}

func objectSchema(props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"location"},
	}
}

func currentWeatherSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"location": locationProperty("city name, optionally with a region, e.g. 'Seattle' or 'Portland, OR'"),
		"units":    unitsProperty(),
	})
}

func forecastSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"location": locationProperty("city name, optionally with a region, e.g. 'Seattle' or 'Portland, OR'"),
		"days":     daysProperty(),
		"units":    unitsProperty(),
	})
}

func alertsSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"location": locationProperty("city name, optionally with a region, e.g. 'Miami' or 'Miami, FL'"),
	})
}

func briefingSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"location": locationProperty("city name, optionally with a region"),
		"units":    unitsProperty(),
	})
}
