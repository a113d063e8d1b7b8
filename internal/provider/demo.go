package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

const (
	DemoName = "Demo Data"

	demoDays = 7
)

var demoConditions = []string{
	"Sunny",
	"Partly Cloudy",
	"Mostly Cloudy",
	"Chance Showers",
	"Clear",
	"Patchy Fog",
	"Scattered Thunderstorms",
}

var demoDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DemoProvider serves deterministic placeholder data without any network
// access. Responses built from it are labelled as demo data.
type DemoProvider struct {
	now func() time.Time
}

func NewDemoProvider(now func() time.Time) *DemoProvider {
	if now == nil {
		now = time.Now
	}
	return &DemoProvider{now: now}
}

func (p *DemoProvider) Name() string {
	return DemoName
}

func (p *DemoProvider) Mode() weather.DataMode {
	return weather.DataModeDemo
}

// FetchForecast returns day and night periods for the next week. Values
// depend only on the coordinates and the clock's calendar day.
func (p *DemoProvider) FetchForecast(ctx context.Context, lat, lon float64) (*weather.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, weather.Unavailable(DemoName, "request cancelled", err)
	}

	now := p.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())

	// Warmer towards the equator, roughly matching seasonal US ranges.
	base := 95 - math.Abs(lat)*0.9
	seed := int(math.Abs(lat*100)+math.Abs(lon*100)) % len(demoConditions)

	periods := make([]weather.ForecastPeriod, 0, demoDays*2)
	for i := 0; i < demoDays; i++ {
		start := day.AddDate(0, 0, i)
		cond := demoConditions[(seed+i)%len(demoConditions)]
		dir := demoDirections[(seed+i)%len(demoDirections)]
		wind := 5 + (seed+i)%4*3
		high := math.Round(base + float64((i%3)*2))
		low := high - 14

		dayName := start.Weekday().String()
		if i == 0 {
			dayName = "Today"
		}
		nightName := dayName + " Night"
		if i == 0 {
			nightName = "Tonight"
		}

		periods = append(periods,
			weather.ForecastPeriod{
				Number:           len(periods) + 1,
				Name:             dayName,
				StartTime:        start,
				EndTime:          start.Add(12 * time.Hour),
				IsDaytime:        true,
				Temperature:      high,
				TemperatureUnit:  units.Fahrenheit,
				WindSpeed:        fmt.Sprintf("%d mph", wind),
				WindDirection:    dir,
				ShortForecast:    cond,
				DetailedForecast: fmt.Sprintf("%s, with a high near %.0f. %s wind around %d mph.", cond, high, dir, wind),
			},
			weather.ForecastPeriod{
				Number:           len(periods) + 2,
				Name:             nightName,
				StartTime:        start.Add(12 * time.Hour),
				EndTime:          start.Add(24 * time.Hour),
				IsDaytime:        false,
				Temperature:      low,
				TemperatureUnit:  units.Fahrenheit,
				WindSpeed:        fmt.Sprintf("%d mph", wind/2),
				WindDirection:    dir,
				ShortForecast:    cond,
				DetailedForecast: fmt.Sprintf("%s, with a low around %.0f.", cond, low),
			},
		)
	}

	return &weather.Forecast{Periods: periods, Updated: day}, nil
}

// FetchAlerts never reports alerts.
func (p *DemoProvider) FetchAlerts(ctx context.Context, lat, lon float64) (*weather.Alerts, error) {
	if err := ctx.Err(); err != nil {
		return nil, weather.Unavailable(DemoName, "request cancelled", err)
	}
	return &weather.Alerts{Records: []weather.AlertRecord{}, Updated: p.now()}, nil
}
