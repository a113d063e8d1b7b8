package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vzahanych/weather-mcp-server/internal/location"
	"github.com/vzahanych/weather-mcp-server/internal/units"
	"github.com/vzahanych/weather-mcp-server/internal/validation"
	"github.com/vzahanych/weather-mcp-server/pkg/logger"
	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

type CurrentRequest struct {
	Location string `json:"location" validate:"required,max=200"`
	Units    string `json:"units" validate:"omitempty,units"`
}

type ForecastRequest struct {
	Location string `json:"location" validate:"required,max=200"`
	Days     *int   `json:"days" validate:"omitempty,min=1,max=5"` // nil means DefaultForecastDays
	Units    string `json:"units" validate:"omitempty,units"`
}

type AlertsRequest struct {
	Location string `json:"location" validate:"required,max=200"`
}

// Service runs location resolution, the provider query and normalization
// for each operation.
type Service struct {
	resolver *location.Resolver
	provider Provider
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, used to pick the current forecast period.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(resolver *location.Resolver, provider Provider, logger *zap.Logger, tele *telemetry.Telemetry, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		provider: provider,
		logger:   logger,
		tele:     tele,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func (s *Service) DataMode() DataMode {
	return s.provider.Mode()
}

func (s *Service) CurrentWeather(ctx context.Context, req CurrentRequest) (*CurrentWeather, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.CurrentWeather")
	defer span.End()

	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	system, _ := units.ParseSystem(req.Units)

	loc := s.resolve(ctx, req.Location)
	reqLogger := s.requestLogger(ctx, loc)
	reqLogger.Info("Current weather requested", zap.String("units", string(system)))

	fc, err := s.fetchForecast(ctx, loc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Error("Failed to fetch forecast", zap.Error(err))
		return nil, err
	}

	current, err := ToCurrentWeather(loc, *fc, system, s.provider.Name(), s.provider.Mode(), s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Warn("No forecast periods for location")
		return nil, fmt.Errorf("current weather for %q: %w", loc.ResolvedName, err)
	}

	span.SetAttributes(attribute.String("period", current.PeriodName))
	return current, nil
}

func (s *Service) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.Forecast")
	defer span.End()

	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	system, _ := units.ParseSystem(req.Units)
	days := DefaultForecastDays
	if req.Days != nil {
		days = *req.Days
	}

	loc := s.resolve(ctx, req.Location)
	reqLogger := s.requestLogger(ctx, loc)
	reqLogger.Info("Forecast requested",
		zap.Int("days", days),
		zap.String("units", string(system)))

	fc, err := s.fetchForecast(ctx, loc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Error("Failed to fetch forecast", zap.Error(err))
		return nil, err
	}

	resp := ToForecastResponse(loc, *fc, days, system, s.provider.Name(), s.provider.Mode())
	span.SetAttributes(attribute.Int("periods", len(resp.Periods)))
	return resp, nil
}

func (s *Service) Alerts(ctx context.Context, req AlertsRequest) (*AlertsResponse, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.Alerts")
	defer span.End()

	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	loc := s.resolve(ctx, req.Location)
	reqLogger := s.requestLogger(ctx, loc)
	reqLogger.Info("Alerts requested")

	alerts, err := s.fetchAlerts(ctx, loc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Error("Failed to fetch alerts", zap.Error(err))
		return nil, err
	}

	resp := ToAlertsResponse(loc, *alerts, s.provider.Name(), s.provider.Mode())
	span.SetAttributes(attribute.Int("alerts", resp.Count))
	return resp, nil
}

// Briefing fetches the forecast and alerts concurrently. Only a forecast
// failure fails the briefing.
func (s *Service) Briefing(ctx context.Context, req CurrentRequest) (*Briefing, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather.Briefing")
	defer span.End()

	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	system, _ := units.ParseSystem(req.Units)

	loc := s.resolve(ctx, req.Location)
	reqLogger := s.requestLogger(ctx, loc)
	reqLogger.Info("Briefing requested", zap.String("units", string(system)))

	var (
		fc        *Forecast
		alerts    *Alerts
		alertsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fc, err = s.fetchForecast(gctx, loc)
		return err
	})
	g.Go(func() error {
		alerts, alertsErr = s.fetchAlerts(gctx, loc)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Error("Failed to fetch forecast for briefing", zap.Error(err))
		return nil, err
	}

	current, err := ToCurrentWeather(loc, *fc, system, s.provider.Name(), s.provider.Mode(), s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("briefing for %q: %w", loc.ResolvedName, err)
	}

	b := &Briefing{Location: loc, Current: current}
	if alertsErr != nil {
		reqLogger.Warn("Alerts unavailable for briefing", zap.Error(alertsErr))
		body := ToErrorBody(alertsErr)
		b.AlertsError = &body
	} else {
		b.Alerts = ToAlertsResponse(loc, *alerts, s.provider.Name(), s.provider.Mode())
	}

	return b, nil
}

func (s *Service) resolve(ctx context.Context, query string) location.Location {
	_, span := s.tele.GetTracer().Start(ctx, "location.Resolve")
	defer span.End()

	loc := s.resolver.Resolve(query)
	span.SetAttributes(
		attribute.String("query", query),
		attribute.Bool("resolved", loc.Resolved),
		attribute.Float64("lat", loc.Latitude),
		attribute.Float64("lon", loc.Longitude),
	)
	return loc
}

func (s *Service) fetchForecast(ctx context.Context, loc location.Location) (*Forecast, error) {
	fc, err := s.provider.FetchForecast(ctx, loc.Latitude, loc.Longitude)
	s.record(ctx, "forecast", err == nil)
	if err != nil {
		err = s.attachLocation(err, loc)
		s.tele.RecordError(ctx, err, map[string]interface{}{"operation": "forecast", "location": loc.ResolvedName})
		return nil, err
	}
	return fc, nil
}

func (s *Service) fetchAlerts(ctx context.Context, loc location.Location) (*Alerts, error) {
	alerts, err := s.provider.FetchAlerts(ctx, loc.Latitude, loc.Longitude)
	s.record(ctx, "alerts", err == nil)
	if err != nil {
		err = s.attachLocation(err, loc)
		s.tele.RecordError(ctx, err, map[string]interface{}{"operation": "alerts", "location": loc.ResolvedName})
		return nil, err
	}
	return alerts, nil
}

func (s *Service) attachLocation(err error, loc location.Location) error {
	var pu *ProviderUnavailableError
	if errors.As(err, &pu) {
		return pu.withLocation(loc.ResolvedName)
	}
	return Unavailable(s.provider.Name(), err.Error(), err).withLocation(loc.ResolvedName)
}

func (s *Service) record(ctx context.Context, operation string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordProviderCall(ctx, s.provider.Name(), operation, success)
	}
}

func (s *Service) requestLogger(ctx context.Context, loc location.Location) *zap.Logger {
	l := s.logger.With(
		zap.String("location", loc.ResolvedName),
		zap.Bool("resolved", loc.Resolved),
		zap.String("provider", s.provider.Name()),
	)
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	return l
}

func validateRequest(req any) error {
	errs := validation.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return &InvalidParameterError{
		Parameter: errs[0].Field,
		Value:     errs[0].Value,
		Reason:    errs[0].Message,
	}
}
