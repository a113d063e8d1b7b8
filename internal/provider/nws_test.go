package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

const forecastBody = `{
  "properties": {
    "updated": "2025-03-01T10:00:00+00:00",
    "periods": [
      {
        "number": 1,
        "name": "Today",
        "startTime": "2025-03-01T06:00:00-08:00",
        "endTime": "2025-03-01T18:00:00-08:00",
        "isDaytime": true,
        "temperature": 59,
        "temperatureUnit": "F",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 20},
        "windSpeed": "5 to 10 mph",
        "windDirection": "SW",
        "shortForecast": "Light Rain",
        "detailedForecast": "Light rain. High near 59."
      },
      {
        "number": 2,
        "name": "Tonight",
        "startTime": "2025-03-01T18:00:00-08:00",
        "endTime": "2025-03-02T06:00:00-08:00",
        "isDaytime": false,
        "temperature": 45,
        "temperatureUnit": "F",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": null},
        "windSpeed": "5 mph",
        "windDirection": "S",
        "shortForecast": "Cloudy",
        "detailedForecast": "Cloudy, with a low around 45."
      }
    ]
  }
}`

const alertsBody = `{
  "updated": "2025-03-01T09:00:00+00:00",
  "features": [
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.1",
        "event": "Wind Advisory",
        "headline": "Wind Advisory issued March 1",
        "severity": "Moderate",
        "urgency": "Expected",
        "certainty": "Likely",
        "areaDesc": "Seattle and Vicinity",
        "effective": "2025-03-01T08:00:00-08:00",
        "expires": "2025-03-01T20:00:00-08:00",
        "description": "South winds 20 to 30 mph.",
        "instruction": null,
        "sender": "w-nws.webmaster@noaa.gov",
        "senderName": "NWS Seattle WA"
      }
    }
  ]
}`

type fakeNWS struct {
	*httptest.Server
	hits       atomic.Int32
	userAgents chan string
}

func newFakeNWS(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, baseURL string)) *fakeNWS {
	t.Helper()

	f := &fakeNWS{userAgents: make(chan string, 16)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		select {
		case f.userAgents <- r.Header.Get("User-Agent"):
		default:
		}
		handler(w, r, f.URL)
	}))
	t.Cleanup(f.Close)
	return f
}

func happyHandler(w http.ResponseWriter, r *http.Request, baseURL string) {
	w.Header().Set("Content-Type", "application/geo+json")
	switch r.URL.Path {
	case "/points/47.6062,-122.3321":
		fmt.Fprintf(w, `{"properties": {"forecast": "%s/gridpoints/SEW/124,67/forecast"}}`, baseURL)
	case "/gridpoints/SEW/124,67/forecast":
		fmt.Fprint(w, forecastBody)
	case "/alerts/active":
		if r.URL.Query().Get("point") != "47.6062,-122.3321" {
			http.Error(w, "bad point", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, alertsBody)
	default:
		http.NotFound(w, r)
	}
}

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Mode:      ModeLive,
		BaseURL:   baseURL,
		UserAgent: "weather-test/1.0",
		Timeout:   2 * time.Second,
	}
}

func requireUnavailable(t *testing.T, err error) *weather.ProviderUnavailableError {
	t.Helper()
	var pu *weather.ProviderUnavailableError
	require.True(t, errors.As(err, &pu), "expected ProviderUnavailableError, got %v", err)
	assert.Equal(t, NWSName, pu.Provider)
	return pu
}

func TestLiveProviderFetchForecast(t *testing.T) {
	srv := newFakeNWS(t, happyHandler)
	p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

	fc, err := p.FetchForecast(context.Background(), 47.6062, -122.3321)
	require.NoError(t, err)
	require.Len(t, fc.Periods, 2)

	first := fc.Periods[0]
	assert.Equal(t, "Today", first.Name)
	assert.Equal(t, 59.0, first.Temperature)
	assert.Equal(t, units.Fahrenheit, first.TemperatureUnit)
	assert.Equal(t, "5 to 10 mph", first.WindSpeed)
	assert.True(t, first.IsDaytime)
	require.NotNil(t, first.PrecipitationChance)
	assert.Equal(t, 20.0, *first.PrecipitationChance)
	assert.Nil(t, first.RelativeHumidity)
	assert.Nil(t, fc.Periods[1].PrecipitationChance)
	assert.True(t, fc.Periods[0].StartTime.Before(fc.Periods[1].StartTime))
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), fc.Updated.UTC())

	assert.Equal(t, "weather-test/1.0", <-srv.userAgents)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestLiveProviderFetchAlerts(t *testing.T) {
	srv := newFakeNWS(t, happyHandler)
	p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

	alerts, err := p.FetchAlerts(context.Background(), 47.6062, -122.3321)
	require.NoError(t, err)
	require.Len(t, alerts.Records, 1)

	a := alerts.Records[0]
	assert.Equal(t, "Wind Advisory", a.Event)
	assert.Equal(t, "Moderate", a.Severity)
	assert.Equal(t, "NWS Seattle WA", a.SenderName)
	assert.Nil(t, a.Instruction)
	assert.False(t, a.Effective.IsZero())
	assert.True(t, a.Expires.After(a.Effective))
}

func TestLiveProviderFetchAlertsEmpty(t *testing.T) {
	srv := newFakeNWS(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		fmt.Fprint(w, `{"type": "FeatureCollection", "features": []}`)
	})
	p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

	alerts, err := p.FetchAlerts(context.Background(), 25.7617, -80.1918)
	require.NoError(t, err)
	assert.NotNil(t, alerts.Records)
	assert.Empty(t, alerts.Records)
}

func TestLiveProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request, baseURL string)
		reason  string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request, _ string) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			reason: "upstream returned status 500",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request, _ string) {
				http.NotFound(w, r)
			},
			reason: "upstream returned status 404",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request, _ string) {
				fmt.Fprint(w, `{"properties": `)
			},
			reason: "malformed upstream payload",
		},
		{
			name: "missing forecast url",
			handler: func(w http.ResponseWriter, r *http.Request, _ string) {
				fmt.Fprint(w, `{"properties": {}}`)
			},
			reason: "points response has no forecast URL",
		},
		{
			name: "missing periods",
			handler: func(w http.ResponseWriter, r *http.Request, baseURL string) {
				if r.URL.Path == "/forecast" {
					fmt.Fprint(w, `{"properties": {"updated": "2025-03-01T10:00:00+00:00"}}`)
					return
				}
				fmt.Fprintf(w, `{"properties": {"forecast": "%s/forecast"}}`, baseURL)
			},
			reason: "forecast response has no periods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeNWS(t, tt.handler)
			p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

			fc, err := p.FetchForecast(context.Background(), 40.7128, -74.0060)
			assert.Nil(t, fc)
			pu := requireUnavailable(t, err)
			assert.Equal(t, tt.reason, pu.Reason)
		})
	}
}

func TestLiveProviderAlertsMalformed(t *testing.T) {
	srv := newFakeNWS(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		fmt.Fprint(w, `{"title": "no features here"}`)
	})
	p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

	_, err := p.FetchAlerts(context.Background(), 25.7617, -80.1918)
	pu := requireUnavailable(t, err)
	assert.Equal(t, "alerts response has no features", pu.Reason)
}

func TestLiveProviderTimeout(t *testing.T) {
	srv := newFakeNWS(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	cfg := testProviderConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	p := NewLiveProvider(cfg, zaptest.NewLogger(t), nil)

	start := time.Now()
	_, err := p.FetchForecast(context.Background(), 47.6062, -122.3321)
	assert.Less(t, time.Since(start), time.Second)

	pu := requireUnavailable(t, err)
	assert.Contains(t, pu.Reason, "timed out")
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestLiveProviderCircuitBreaker(t *testing.T) {
	srv := newFakeNWS(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	cfg := testProviderConfig(srv.URL)
	cfg.Breaker = config.BreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	}
	p := NewLiveProvider(cfg, zaptest.NewLogger(t), nil)

	for i := 0; i < 2; i++ {
		_, err := p.FetchAlerts(context.Background(), 47.6062, -122.3321)
		pu := requireUnavailable(t, err)
		assert.Equal(t, "upstream returned status 503", pu.Reason)
	}

	_, err := p.FetchAlerts(context.Background(), 47.6062, -122.3321)
	pu := requireUnavailable(t, err)
	assert.Contains(t, pu.Reason, "circuit open")
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestLiveProviderCancelledContext(t *testing.T) {
	srv := newFakeNWS(t, happyHandler)
	p := NewLiveProvider(testProviderConfig(srv.URL), zaptest.NewLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.FetchForecast(ctx, 47.6062, -122.3321)
	requireUnavailable(t, err)
}

func breakerConfig(baseURL string) config.ProviderConfig {
	cfg := testProviderConfig(baseURL)
	cfg.Breaker = config.BreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	}
	return cfg
}

func TestLiveProviderBreakerIgnoresOutOfCoverage(t *testing.T) {
	srv := newFakeNWS(t, happyHandler)
	p := NewLiveProvider(breakerConfig(srv.URL), zaptest.NewLogger(t), nil)

	// Tokyo is outside NWS coverage; the fake answers 404 like NWS does.
	for i := 0; i < 5; i++ {
		_, err := p.FetchForecast(context.Background(), 35.6762, 139.6503)
		pu := requireUnavailable(t, err)
		assert.Equal(t, "upstream returned status 404", pu.Reason)
	}

	fc, err := p.FetchForecast(context.Background(), 47.6062, -122.3321)
	require.NoError(t, err)
	assert.Len(t, fc.Periods, 2)
}

func TestLiveProviderBreakerPerOperation(t *testing.T) {
	srv := newFakeNWS(t, func(w http.ResponseWriter, r *http.Request, baseURL string) {
		if r.URL.Path == "/alerts/active" {
			happyHandler(w, r, baseURL)
			return
		}
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	p := NewLiveProvider(breakerConfig(srv.URL), zaptest.NewLogger(t), nil)

	for i := 0; i < 3; i++ {
		_, err := p.FetchForecast(context.Background(), 47.6062, -122.3321)
		requireUnavailable(t, err)
	}
	_, err := p.FetchForecast(context.Background(), 47.6062, -122.3321)
	pu := requireUnavailable(t, err)
	assert.Contains(t, pu.Reason, "circuit open")

	alerts, err := p.FetchAlerts(context.Background(), 47.6062, -122.3321)
	require.NoError(t, err)
	assert.Len(t, alerts.Records, 1)
}

func TestLiveProviderBreakerIgnoresCancellation(t *testing.T) {
	srv := newFakeNWS(t, happyHandler)
	p := NewLiveProvider(breakerConfig(srv.URL), zaptest.NewLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err := p.FetchAlerts(ctx, 47.6062, -122.3321)
		requireUnavailable(t, err)
	}

	alerts, err := p.FetchAlerts(context.Background(), 47.6062, -122.3321)
	require.NoError(t, err)
	assert.Len(t, alerts.Records, 1)
}

func TestUpstreamHealthy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not found", weather.Unavailable(NWSName, "404", &statusError{code: http.StatusNotFound}), true},
		{"bad request", weather.Unavailable(NWSName, "400", &statusError{code: http.StatusBadRequest}), true},
		{"server error", weather.Unavailable(NWSName, "503", &statusError{code: http.StatusServiceUnavailable}), false},
		{"cancelled", weather.Unavailable(NWSName, "request failed", context.Canceled), true},
		{"timeout", weather.Unavailable(NWSName, "timed out", context.DeadlineExceeded), false},
		{"malformed", weather.Unavailable(NWSName, "malformed upstream payload", errors.New("eof")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, upstreamHealthy(tt.err))
		})
	}
}
