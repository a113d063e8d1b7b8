package weather

import (
	"time"

	"github.com/vzahanych/weather-mcp-server/internal/location"
	"github.com/vzahanych/weather-mcp-server/internal/units"
)

const (
	MinForecastDays     = 1
	MaxForecastDays     = 5
	DefaultForecastDays = 5

	periodsPerDay = 2
)

const currentWeatherNote = "Current conditions based on forecast data"

// ToCurrentWeather picks the period whose start is closest to now among
// periods that have not ended yet, falling back to the first period.
func ToCurrentWeather(loc location.Location, fc Forecast, system units.System, source string, mode DataMode, now time.Time) (*CurrentWeather, error) {
	if len(fc.Periods) == 0 {
		return nil, ErrNoPeriods
	}

	p := fc.Periods[selectCurrentPeriod(fc.Periods, now)]
	temp, unit := units.ConvertTemperature(p.Temperature, p.TemperatureUnit, system)

	return &CurrentWeather{
		Location:         loc,
		Temperature:      temp,
		Unit:             unit,
		Condition:        p.ShortForecast,
		DetailedForecast: p.DetailedForecast,
		Wind: Wind{
			Speed:     units.ConvertWindSpeed(p.WindSpeed, system),
			Direction: p.WindDirection,
		},
		Humidity:            p.RelativeHumidity,
		PrecipitationChance: p.PrecipitationChance,
		PeriodName:          p.Name,
		ObservedAt:          p.StartTime,
		ValidUntil:          p.EndTime,
		Units:               system,
		Source:              source,
		DataMode:            mode,
		Note:                currentWeatherNote,
	}, nil
}

func selectCurrentPeriod(periods []ForecastPeriod, now time.Time) int {
	best := -1
	var bestDist time.Duration

	for i, p := range periods {
		if !p.EndTime.IsZero() && !p.EndTime.After(now) {
			continue
		}
		dist := p.StartTime.Sub(now)
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}

	if best == -1 {
		return 0
	}
	return best
}

// ClampDays bounds days to the supported forecast range.
func ClampDays(days int) int {
	switch {
	case days < MinForecastDays:
		return MinForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	default:
		return days
	}
}

// ToForecastResponse keeps the first days*2 (day and night) periods in
// provider order. Asking for more than is available returns everything.
func ToForecastResponse(loc location.Location, fc Forecast, days int, system units.System, source string, mode DataMode) *ForecastResponse {
	days = ClampDays(days)

	n := days * periodsPerDay
	if n > len(fc.Periods) {
		n = len(fc.Periods)
	}

	periods := make([]ForecastPeriod, 0, n)
	for _, p := range fc.Periods[:n] {
		p.Temperature, p.TemperatureUnit = units.ConvertTemperature(p.Temperature, p.TemperatureUnit, system)
		p.WindSpeed = units.ConvertWindSpeed(p.WindSpeed, system)
		periods = append(periods, p)
	}

	return &ForecastResponse{
		Location:      loc,
		Periods:       periods,
		RequestedDays: days,
		Units:         system,
		Source:        source,
		Updated:       fc.Updated,
		DataMode:      mode,
	}
}

// ToAlertsResponse attaches the location to the provider alerts. No alerts
// is a valid result and yields an empty, non-nil list.
func ToAlertsResponse(loc location.Location, alerts Alerts, source string, mode DataMode) *AlertsResponse {
	records := make([]AlertRecord, len(alerts.Records))
	copy(records, alerts.Records)

	return &AlertsResponse{
		Location: loc,
		Alerts:   records,
		Count:    len(records),
		Source:   source,
		Updated:  alerts.Updated,
		DataMode: mode,
	}
}
