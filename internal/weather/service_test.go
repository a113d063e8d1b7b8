package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-mcp-server/internal/location"
	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/pkg/logger"
)

type stubProvider struct {
	mu sync.Mutex

	forecast    *Forecast
	forecastErr error
	alerts      *Alerts
	alertsErr   error

	forecastCalls int
	alertsCalls   int
	lastLat       float64
	lastLon       float64
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Mode() DataMode { return DataModeLive }

func (p *stubProvider) FetchForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forecastCalls++
	p.lastLat, p.lastLon = lat, lon
	return p.forecast, p.forecastErr
}

func (p *stubProvider) FetchAlerts(ctx context.Context, lat, lon float64) (*Alerts, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alertsCalls++
	return p.alerts, p.alertsErr
}

type recordedCall struct {
	provider  string
	operation string
	success   bool
}

type stubRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *stubRecorder) RecordProviderCall(_ context.Context, provider, operation string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{provider, operation, success})
}

func newTestService(t *testing.T, p Provider, opts ...Option) *Service {
	t.Helper()
	resolver := location.NewResolver(location.NewTable(location.DefaultEntries()))
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(resolver, p, zaptest.NewLogger(t), nil, opts...)
}

func TestServiceCurrentWeather(t *testing.T) {
	p := &stubProvider{forecast: &Forecast{Periods: []ForecastPeriod{{
		Name:            "This Afternoon",
		StartTime:       testNow.Add(-time.Hour),
		EndTime:         testNow.Add(5 * time.Hour),
		Temperature:     59,
		TemperatureUnit: units.Fahrenheit,
		WindSpeed:       "10 mph",
		ShortForecast:   "Light Rain",
	}}}}
	rec := &stubRecorder{}
	svc := newTestService(t, p, WithMetricsRecorder(rec))

	ctx := logger.WithRequestID(context.Background(), "req-1")
	cw, err := svc.CurrentWeather(ctx, CurrentRequest{Location: "  Seattle  "})
	require.NoError(t, err)

	assert.Equal(t, 15.0, cw.Temperature)
	assert.Equal(t, units.Celsius, cw.Unit)
	assert.Equal(t, "Seattle, WA", cw.Location.ResolvedName)
	assert.True(t, cw.Location.Resolved)
	assert.Equal(t, "stub", cw.Source)
	assert.Equal(t, 47.6062, p.lastLat)
	assert.Equal(t, -122.3321, p.lastLon)
	assert.Equal(t, []recordedCall{{"stub", "forecast", true}}, rec.calls)
}

func TestServiceCurrentWeatherUnknownLocation(t *testing.T) {
	p := &stubProvider{forecast: &Forecast{Periods: makePeriods(testNow, 2)}}
	svc := newTestService(t, p)

	cw, err := svc.CurrentWeather(context.Background(), CurrentRequest{Location: "Atlantis", Units: "imperial"})
	require.NoError(t, err)
	assert.False(t, cw.Location.Resolved)
	assert.Equal(t, "Atlantis", cw.Location.ResolvedName)
	assert.Equal(t, location.DefaultLatitude, p.lastLat)
	assert.Equal(t, location.DefaultLongitude, p.lastLon)
}

func TestServiceCurrentWeatherNoPeriods(t *testing.T) {
	p := &stubProvider{forecast: &Forecast{Periods: []ForecastPeriod{}}}
	svc := newTestService(t, p)

	_, err := svc.CurrentWeather(context.Background(), CurrentRequest{Location: "Denver"})
	require.ErrorIs(t, err, ErrNoPeriods)
	assert.Equal(t, CodeNoData, ToErrorBody(err).Error)
}

func TestServiceProviderUnavailable(t *testing.T) {
	p := &stubProvider{forecastErr: Unavailable("stub", "request timed out after 10s", context.DeadlineExceeded)}
	rec := &stubRecorder{}
	svc := newTestService(t, p, WithMetricsRecorder(rec))

	_, err := svc.Forecast(context.Background(), ForecastRequest{Location: "Seattle"})
	require.Error(t, err)

	var pu *ProviderUnavailableError
	require.True(t, errors.As(err, &pu))
	assert.Equal(t, "Seattle, WA", pu.Location)
	assert.Contains(t, pu.Reason, "timed out")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []recordedCall{{"stub", "forecast", false}}, rec.calls)
}

func TestServiceWrapsForeignProviderErrors(t *testing.T) {
	p := &stubProvider{alertsErr: errors.New("socket closed")}
	svc := newTestService(t, p)

	_, err := svc.Alerts(context.Background(), AlertsRequest{Location: "Miami"})
	var pu *ProviderUnavailableError
	require.True(t, errors.As(err, &pu))
	assert.Equal(t, "stub", pu.Provider)
	assert.Equal(t, "Miami, FL", pu.Location)
}

func days(n int) *int { return &n }

func TestServiceForecast(t *testing.T) {
	p := &stubProvider{forecast: &Forecast{Periods: makePeriods(testNow, 10)}}
	svc := newTestService(t, p)

	resp, err := svc.Forecast(context.Background(), ForecastRequest{Location: "New York", Days: days(3), Units: "imperial"})
	require.NoError(t, err)
	require.Len(t, resp.Periods, 6)
	assert.Equal(t, units.Fahrenheit, resp.Periods[0].TemperatureUnit)
	assert.Equal(t, "New York, NY", resp.Location.ResolvedName)

	resp, err = svc.Forecast(context.Background(), ForecastRequest{Location: "New York"})
	require.NoError(t, err)
	assert.Equal(t, DefaultForecastDays, resp.RequestedDays)
	assert.Len(t, resp.Periods, 10)
	assert.Equal(t, units.Metric, resp.Units)
}

func TestServiceInvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		call      func(svc *Service) error
		parameter string
	}{
		{
			name: "days above range",
			call: func(svc *Service) error {
				_, err := svc.Forecast(context.Background(), ForecastRequest{Location: "Seattle", Days: days(9)})
				return err
			},
			parameter: "days",
		},
		{
			name: "zero days",
			call: func(svc *Service) error {
				_, err := svc.Forecast(context.Background(), ForecastRequest{Location: "Seattle", Days: days(0)})
				return err
			},
			parameter: "days",
		},
		{
			name: "negative days",
			call: func(svc *Service) error {
				_, err := svc.Forecast(context.Background(), ForecastRequest{Location: "Seattle", Days: days(-1)})
				return err
			},
			parameter: "days",
		},
		{
			name: "unknown units",
			call: func(svc *Service) error {
				_, err := svc.CurrentWeather(context.Background(), CurrentRequest{Location: "Seattle", Units: "kelvin"})
				return err
			},
			parameter: "units",
		},
		{
			name: "blank location",
			call: func(svc *Service) error {
				_, err := svc.Alerts(context.Background(), AlertsRequest{Location: "   "})
				return err
			},
			parameter: "location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{}
			err := tt.call(newTestService(t, p))

			var ip *InvalidParameterError
			require.True(t, errors.As(err, &ip), "expected InvalidParameterError, got %v", err)
			assert.Equal(t, tt.parameter, ip.Parameter)
			assert.Equal(t, 0, p.forecastCalls+p.alertsCalls)
		})
	}
}

func TestServiceAlertsEmpty(t *testing.T) {
	p := &stubProvider{alerts: &Alerts{Records: []AlertRecord{}}}
	svc := newTestService(t, p)

	resp, err := svc.Alerts(context.Background(), AlertsRequest{Location: "Miami"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Alerts)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "Miami, FL", resp.Location.ResolvedName)
}

func TestServiceBriefing(t *testing.T) {
	p := &stubProvider{
		forecast: &Forecast{Periods: makePeriods(testNow, 4)},
		alerts:   &Alerts{Records: []AlertRecord{{Event: "Heat Advisory"}}},
	}
	rec := &stubRecorder{}
	svc := newTestService(t, p, WithMetricsRecorder(rec))

	b, err := svc.Briefing(context.Background(), CurrentRequest{Location: "Phoenix"})
	require.NoError(t, err)
	require.NotNil(t, b.Current)
	require.NotNil(t, b.Alerts)
	assert.Nil(t, b.AlertsError)
	assert.Equal(t, 1, b.Alerts.Count)
	assert.Equal(t, 1, p.forecastCalls)
	assert.Equal(t, 1, p.alertsCalls)
	assert.Len(t, rec.calls, 2)
}

func TestServiceBriefingAlertsFailure(t *testing.T) {
	p := &stubProvider{
		forecast:  &Forecast{Periods: makePeriods(testNow, 4)},
		alertsErr: Unavailable("stub", "upstream returned status 503", nil),
	}
	svc := newTestService(t, p)

	b, err := svc.Briefing(context.Background(), CurrentRequest{Location: "Phoenix"})
	require.NoError(t, err)
	require.NotNil(t, b.Current)
	assert.Nil(t, b.Alerts)
	require.NotNil(t, b.AlertsError)
	assert.Equal(t, CodeProviderUnavailable, b.AlertsError.Error)
	assert.Equal(t, "Phoenix, AZ", b.AlertsError.Location)
}

func TestServiceBriefingForecastFailure(t *testing.T) {
	p := &stubProvider{
		forecastErr: Unavailable("stub", "upstream returned status 500", nil),
		alerts:      &Alerts{Records: []AlertRecord{}},
	}
	svc := newTestService(t, p)

	_, err := svc.Briefing(context.Background(), CurrentRequest{Location: "Phoenix"})
	var pu *ProviderUnavailableError
	assert.True(t, errors.As(err, &pu))
}
