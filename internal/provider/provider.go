// Package provider holds the upstream weather data sources. The mode is
// picked once from configuration: "live" for the National Weather Service,
// "demo" for static placeholder data.
package provider

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

const (
	ModeLive = "live"
	ModeDemo = "demo"
)

func New(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) (weather.Provider, error) {
	switch cfg.Mode {
	case ModeLive:
		logger.Info("Using live weather provider",
			zap.String("base_url", cfg.BaseURL),
			zap.Duration("timeout", cfg.Timeout),
			zap.Bool("breaker", cfg.Breaker.Enabled))
		return NewLiveProvider(cfg, logger, tele), nil
	case ModeDemo:
		logger.Warn("Using demo weather provider; responses carry static demo data")
		return NewDemoProvider(time.Now), nil
	default:
		return nil, fmt.Errorf("unknown provider mode %q", cfg.Mode)
	}
}
