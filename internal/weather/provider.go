package weather

import "context"

// Provider abstracts the upstream weather source. Implementations report
// every failure as a *ProviderUnavailableError.
type Provider interface {
	Name() string
	Mode() DataMode
	FetchForecast(ctx context.Context, lat, lon float64) (*Forecast, error)
	FetchAlerts(ctx context.Context, lat, lon float64) (*Alerts, error)
}

// MetricsRecorder receives one event per provider call.
type MetricsRecorder interface {
	RecordProviderCall(ctx context.Context, provider, operation string, success bool)
}
