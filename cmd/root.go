package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/location"
	"github.com/vzahanych/weather-mcp-server/internal/provider"
	"github.com/vzahanych/weather-mcp-server/internal/server/handlers"
	"github.com/vzahanych/weather-mcp-server/internal/tools"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
	"github.com/vzahanych/weather-mcp-server/pkg/logger"
	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry
	app        *application
)

// application holds the components shared by every command.
type application struct {
	service *weather.Service
	tools   *tools.Handlers
	metrics *handlers.MetricsHandler
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-mcp-server",
		Short: "Weather MCP server",
		Long: `Serves current conditions, forecasts and active alerts for a location as MCP tools,
backed by the National Weather Service API. Also exposes a JSON REST surface.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdownServices()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serverCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(queryCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stdout carries the MCP stream in stdio mode
	if cmd.Name() == "stdio" && cfg.Logging.OutputPath == "stdout" {
		cfg.Logging.OutputPath = "stderr"
	}

	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(cmd.Context(), cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry, continuing without tracing", zap.Error(err))
		tele = nil
	}

	table := location.NewTable(location.DefaultEntries(), cfg.Locations)
	log.Info("Location table loaded",
		zap.Int("entries", table.Len()),
		zap.Int("configured", len(cfg.Locations)))

	upstream, err := provider.New(cfg.Provider, log, tele)
	if err != nil {
		return err
	}

	metrics := handlers.NewMetricsHandler(log)
	service := weather.NewService(location.NewResolver(table), upstream, log, tele,
		weather.WithMetricsRecorder(metrics))

	app = &application{
		service: service,
		tools:   tools.New(service, log),
		metrics: metrics,
	}

	return nil
}

func shutdownServices() {
	if tele != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tele.Shutdown(ctx); err != nil && log != nil {
			log.Warn("Failed to shut down telemetry", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
}
