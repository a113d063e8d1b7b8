package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

const (
	NWSName = "National Weather Service"

	geoJSON = "application/geo+json"
)

// LiveProvider queries the National Weather Service API. The API is
// key-less; callers identify themselves through the User-Agent header.
// Each call makes exactly one attempt bounded by the configured timeout.
type LiveProvider struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	forecasts *gobreaker.CircuitBreaker
	alerts    *gobreaker.CircuitBreaker
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

func NewLiveProvider(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) *LiveProvider {
	p := &LiveProvider{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(tele.TracerProvider()),
			),
		},
		logger: logger.With(zap.String("provider", NWSName)),
		tele:   tele,
	}

	if cfg.Breaker.Enabled {
		p.forecasts = p.newBreaker("nws-forecast", cfg.Breaker)
		p.alerts = p.newBreaker("nws-alerts", cfg.Breaker)
	}

	return p
}

func (p *LiveProvider) newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// upstreamHealthy reports whether err leaves the upstream looking healthy.
// Client-side statuses (e.g. 404 for points outside NWS coverage) and caller
// cancellation do not count against the breaker.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code < http.StatusInternalServerError
	}
	return false
}

// statusError carries a non-success upstream status code.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d", e.code)
}

func (p *LiveProvider) Name() string {
	return NWSName
}

func (p *LiveProvider) Mode() weather.DataMode {
	return weather.DataModeLive
}

type pointsResponse struct {
	Properties *struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type valueUnit struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

type forecastResponse struct {
	Properties *struct {
		Updated *time.Time `json:"updated"`
		Periods []struct {
			Number                     int        `json:"number"`
			Name                       string     `json:"name"`
			StartTime                  time.Time  `json:"startTime"`
			EndTime                    time.Time  `json:"endTime"`
			IsDaytime                  bool       `json:"isDaytime"`
			Temperature                *float64   `json:"temperature"`
			TemperatureUnit            string     `json:"temperatureUnit"`
			WindSpeed                  string     `json:"windSpeed"`
			WindDirection              string     `json:"windDirection"`
			ShortForecast              string     `json:"shortForecast"`
			DetailedForecast           string     `json:"detailedForecast"`
			ProbabilityOfPrecipitation *valueUnit `json:"probabilityOfPrecipitation"`
			RelativeHumidity           *valueUnit `json:"relativeHumidity"`
		} `json:"periods"`
	} `json:"properties"`
}

type alertsResponse struct {
	Updated  *time.Time `json:"updated"`
	Features []struct {
		Properties struct {
			ID          string     `json:"id"`
			Event       string     `json:"event"`
			Headline    string     `json:"headline"`
			Severity    string     `json:"severity"`
			Urgency     string     `json:"urgency"`
			Certainty   string     `json:"certainty"`
			AreaDesc    string     `json:"areaDesc"`
			Effective   *time.Time `json:"effective"`
			Expires     *time.Time `json:"expires"`
			Description string     `json:"description"`
			Instruction *string    `json:"instruction"`
			Sender      string     `json:"sender"`
			SenderName  string     `json:"senderName"`
		} `json:"properties"`
	} `json:"features"`
}

// FetchForecast resolves the grid forecast URL through /points and then
// fetches the forecast periods.
func (p *LiveProvider) FetchForecast(ctx context.Context, lat, lon float64) (*weather.Forecast, error) {
	ctx, span := p.tele.GetTracer().Start(ctx, "nws.FetchForecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var points pointsResponse
	if err := p.getJSON(ctx, p.forecasts, fmt.Sprintf("%s/points/%.4f,%.4f", p.baseURL, lat, lon), &points); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}
	if points.Properties == nil || points.Properties.Forecast == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, weather.Unavailable(NWSName, "points response has no forecast URL", nil)
	}

	var raw forecastResponse
	if err := p.getJSON(ctx, p.forecasts, points.Properties.Forecast, &raw); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}
	if raw.Properties == nil || raw.Properties.Periods == nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, weather.Unavailable(NWSName, "forecast response has no periods", nil)
	}

	fc := &weather.Forecast{Periods: make([]weather.ForecastPeriod, 0, len(raw.Properties.Periods))}
	if raw.Properties.Updated != nil {
		fc.Updated = *raw.Properties.Updated
	}

	for _, rp := range raw.Properties.Periods {
		if rp.Temperature == nil {
			span.SetAttributes(attribute.Bool("success", false))
			return nil, weather.Unavailable(NWSName, fmt.Sprintf("forecast period %q has no temperature", rp.Name), nil)
		}
		unit := units.Fahrenheit
		if strings.EqualFold(rp.TemperatureUnit, "C") {
			unit = units.Celsius
		}

		fc.Periods = append(fc.Periods, weather.ForecastPeriod{
			Number:              rp.Number,
			Name:                rp.Name,
			StartTime:           rp.StartTime,
			EndTime:             rp.EndTime,
			IsDaytime:           rp.IsDaytime,
			Temperature:         *rp.Temperature,
			TemperatureUnit:     unit,
			WindSpeed:           rp.WindSpeed,
			WindDirection:       rp.WindDirection,
			ShortForecast:       rp.ShortForecast,
			DetailedForecast:    rp.DetailedForecast,
			PrecipitationChance: rp.ProbabilityOfPrecipitation.value(),
			RelativeHumidity:    rp.RelativeHumidity.value(),
		})
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("periods", len(fc.Periods)),
	)
	p.logger.Debug("Forecast fetched",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("periods", len(fc.Periods)))

	return fc, nil
}

// FetchAlerts returns the active alerts covering the point.
func (p *LiveProvider) FetchAlerts(ctx context.Context, lat, lon float64) (*weather.Alerts, error) {
	ctx, span := p.tele.GetTracer().Start(ctx, "nws.FetchAlerts")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var raw alertsResponse
	if err := p.getJSON(ctx, p.alerts, fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", p.baseURL, lat, lon), &raw); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}
	if raw.Features == nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, weather.Unavailable(NWSName, "alerts response has no features", nil)
	}

	alerts := &weather.Alerts{Records: make([]weather.AlertRecord, 0, len(raw.Features))}
	if raw.Updated != nil {
		alerts.Updated = *raw.Updated
	}

	for _, f := range raw.Features {
		ap := f.Properties
		rec := weather.AlertRecord{
			ID:          ap.ID,
			Event:       ap.Event,
			Headline:    ap.Headline,
			Severity:    ap.Severity,
			Urgency:     ap.Urgency,
			Certainty:   ap.Certainty,
			AreaDesc:    ap.AreaDesc,
			Description: ap.Description,
			Instruction: ap.Instruction,
			Sender:      ap.Sender,
			SenderName:  ap.SenderName,
		}
		if ap.Effective != nil {
			rec.Effective = *ap.Effective
		}
		if ap.Expires != nil {
			rec.Expires = *ap.Expires
		}
		alerts.Records = append(alerts.Records, rec)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("alerts", len(alerts.Records)),
	)
	p.logger.Debug("Alerts fetched",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("alerts", len(alerts.Records)))

	return alerts, nil
}

func (v *valueUnit) value() *float64 {
	if v == nil || v.Value == nil {
		return nil
	}
	out := *v.Value
	return &out
}

// getJSON performs one GET through breaker (nil when disabled) and decodes
// the body into out. Every failure comes back as a ProviderUnavailableError.
func (p *LiveProvider) getJSON(ctx context.Context, breaker *gobreaker.CircuitBreaker, url string, out any) error {
	call := func() (interface{}, error) {
		return nil, p.doGet(ctx, url, out)
	}

	var err error
	if breaker != nil {
		_, err = breaker.Execute(call)
	} else {
		_, err = call()
	}
	if err == nil {
		return nil
	}

	var pu *weather.ProviderUnavailableError
	switch {
	case errors.As(err, &pu):
		return pu
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return weather.Unavailable(NWSName, "circuit open: upstream failing", err)
	default:
		return weather.Unavailable(NWSName, err.Error(), err)
	}
}

func (p *LiveProvider) doGet(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return weather.Unavailable(NWSName, "invalid request", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", geoJSON)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return weather.Unavailable(NWSName, fmt.Sprintf("request timed out after %s", p.timeout), err)
		}
		return weather.Unavailable(NWSName, "request failed", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			p.logger.Debug("Failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Unavailable(NWSName, fmt.Sprintf("upstream returned status %d", resp.StatusCode), &statusError{code: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return weather.Unavailable(NWSName, "malformed upstream payload", err)
	}

	return nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
