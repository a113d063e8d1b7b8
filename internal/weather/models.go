package weather

import (
	"time"

	"github.com/vzahanych/weather-mcp-server/internal/location"
	"github.com/vzahanych/weather-mcp-server/internal/units"
)

// DataMode tells consumers whether a response came from the upstream
// provider or from static demo data.
type DataMode string

const (
	DataModeLive DataMode = "live"
	DataModeDemo DataMode = "demo"
)

// ForecastPeriod is one provider forecast window, e.g. "Tonight".
type ForecastPeriod struct {
	Number              int                   `json:"number"`
	Name                string                `json:"name"`
	StartTime           time.Time             `json:"start_time"`
	EndTime             time.Time             `json:"end_time"`
	IsDaytime           bool                  `json:"is_daytime"`
	Temperature         float64               `json:"temperature"`
	TemperatureUnit     units.TemperatureUnit `json:"temperature_unit"`
	WindSpeed           string                `json:"wind_speed"`
	WindDirection       string                `json:"wind_direction"`
	ShortForecast       string                `json:"conditions"`
	DetailedForecast    string                `json:"detailed_forecast"`
	PrecipitationChance *float64              `json:"precipitation_chance"`
	RelativeHumidity    *float64              `json:"humidity"`
}

// Forecast is the raw provider output for one coordinate pair.
type Forecast struct {
	Periods []ForecastPeriod
	Updated time.Time
}

// AlertRecord is one active alert as reported by the provider.
type AlertRecord struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	Headline    string    `json:"headline"`
	Severity    string    `json:"severity"`
	Urgency     string    `json:"urgency"`
	Certainty   string    `json:"certainty"`
	AreaDesc    string    `json:"area_desc"`
	Effective   time.Time `json:"effective"`
	Expires     time.Time `json:"expires"`
	Description string    `json:"description"`
	Instruction *string   `json:"instruction,omitempty"`
	Sender      string    `json:"sender"`
	SenderName  string    `json:"sender_name"`
}

// Alerts is the raw provider alert output for one coordinate pair.
type Alerts struct {
	Records []AlertRecord
	Updated time.Time
}

type Wind struct {
	Speed     string `json:"speed"`
	Direction string `json:"direction"`
}

// CurrentWeather is derived from the forecast period nearest to now; the
// provider's forecast endpoint is used, not station observations.
type CurrentWeather struct {
	Location            location.Location     `json:"location"`
	Temperature         float64               `json:"temperature"`
	Unit                units.TemperatureUnit `json:"unit"`
	Condition           string                `json:"condition"`
	DetailedForecast    string                `json:"detailed_forecast"`
	Wind                Wind                  `json:"wind"`
	Humidity            *float64              `json:"humidity"`
	PrecipitationChance *float64              `json:"precipitation_chance"`
	PeriodName          string                `json:"period_name"`
	ObservedAt          time.Time             `json:"observed_at"`
	ValidUntil          time.Time             `json:"valid_until"`
	Units               units.System          `json:"units"`
	Source              string                `json:"source"`
	DataMode            DataMode              `json:"data_mode"`
	Note                string                `json:"note"`
}

type ForecastResponse struct {
	Location      location.Location `json:"location"`
	Periods       []ForecastPeriod  `json:"periods"`
	RequestedDays int               `json:"requested_days"`
	Units         units.System      `json:"units"`
	Source        string            `json:"source"`
	Updated       time.Time         `json:"updated"`
	DataMode      DataMode          `json:"data_mode"`
}

type AlertsResponse struct {
	Location location.Location `json:"location"`
	Alerts   []AlertRecord     `json:"alerts"`
	Count    int               `json:"count"`
	Source   string            `json:"source"`
	Updated  time.Time         `json:"updated"`
	DataMode DataMode          `json:"data_mode"`
}

// Briefing combines current conditions with active alerts. Alerts are
// optional: when the alert lookup fails AlertsError carries the reason.
type Briefing struct {
	Location    location.Location `json:"location"`
	Current     *CurrentWeather   `json:"current"`
	Alerts      *AlertsResponse   `json:"alerts,omitempty"`
	AlertsError *ErrorBody        `json:"alerts_error,omitempty"`
}
