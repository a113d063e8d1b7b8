package config

import (
	"sync/atomic"
	"time"

	"github.com/vzahanych/weather-mcp-server/internal/location"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string           `mapstructure:"version"`
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Provider    ProviderConfig   `mapstructure:"provider"`
	Locations   []location.Entry `mapstructure:"locations" validate:"dive"`
	MCP         MCPConfig        `mapstructure:"mcp"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int        `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string     `mapstructure:"host"`
	ReadTimeout  int        `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int        `mapstructure:"write_timeout" validate:"min=0"` // seconds, 0 keeps MCP streams open
	IdleTimeout  int        `mapstructure:"idle_timeout" validate:"min=0"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig controls cross-origin access to the HTTP surface. An origin of
// "*" allows every origin.
type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins" validate:"required_if=Enabled true"`
}

// ProviderConfig selects the upstream data source. Mode "live" queries the
// National Weather Service, which needs no API key but expects a
// descriptive User-Agent. Mode "demo" serves static, labelled demo data.
type ProviderConfig struct {
	Mode      string        `mapstructure:"mode" validate:"oneof=live demo"`
	BaseURL   string        `mapstructure:"base_url" validate:"required_if=Mode live"`
	UserAgent string        `mapstructure:"user_agent" validate:"required_if=Mode live"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig controls the circuit breaker around upstream calls.
type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures" validate:"min=1"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout" validate:"gt=0"`
	HalfOpenRequests    uint32        `mapstructure:"half_open_requests" validate:"min=1"`
}

type MCPConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Path string `mapstructure:"path" validate:"startswith=/"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8000,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 0,
			IdleTimeout:  60,
			CORS: CORSConfig{
				Enabled:      true,
				AllowOrigins: []string{"*"},
			},
		},
		Provider: ProviderConfig{
			Mode:      "live",
			BaseURL:   "https://api.weather.gov",
			UserAgent: "weather-mcp-server/1.0 (ops@example.com)",
			Timeout:   10 * time.Second,
			Breaker: BreakerConfig{
				Enabled:             true,
				ConsecutiveFailures: 5,
				OpenTimeout:         30 * time.Second,
				HalfOpenRequests:    1,
			},
		},
		MCP: MCPConfig{
			Name: "weather-mcp-server",
			Path: "/mcp",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stderr",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-mcp-server",
		},
	}
}
