package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/server/handlers"
	"github.com/vzahanych/weather-mcp-server/internal/server/middlewares"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	server  *http.Server
	service *weather.Service
	mcp     *mcp.Server
	metrics *handlers.MetricsHandler
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

// NewServer wires the REST, MCP, health and metrics routes. metrics should
// be the same recorder the weather service reports provider calls to.
func NewServer(cfg *config.Config, service *weather.Service, mcpServer *mcp.Server, metrics *handlers.MetricsHandler, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	if cfg.Server.CORS.Enabled {
		engine.Use(middlewares.CORSMiddleware(cfg.Server.CORS))
	}
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		service: service,
		mcp:     mcpServer,
		metrics: metrics,
		logger:  logger,
		tele:    tele,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.service, s.cfg.Version, s.cfg.MCP.Path, s.logger)
	s.engine.GET("/", health.Root)

	// MCP streamable HTTP transport
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
	s.engine.Any(s.cfg.MCP.Path, gin.WrapH(mcpHandler))

	// Business endpoints
	weatherHandler := handlers.NewWeatherHandler(s.service, s.logger)
	api := s.engine.Group("/api/v1/weather")
	api.GET("/current", weatherHandler.GetCurrent)
	api.GET("/forecast", weatherHandler.GetForecast)
	api.GET("/alerts", weatherHandler.GetAlerts)
	api.GET("/briefing", weatherHandler.GetBriefing)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server stops. A graceful Shutdown is not reported
// as an error.
func (s *Server) Start() error {
	s.logger.Info("Starting server",
		zap.String("addr", s.server.Addr),
		zap.String("mcp_path", s.cfg.MCP.Path),
		zap.String("data_mode", string(s.service.DataMode())))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
