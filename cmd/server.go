package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/server"
	"github.com/vzahanych/weather-mcp-server/internal/tools"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the HTTP server exposing the MCP streamable HTTP endpoint, the REST weather API, health checks and metrics.`,
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather MCP server",
		zap.String("config_path", configPath),
		zap.String("provider_mode", cfg.Provider.Mode),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	mcpServer := tools.NewServer(cfg.MCP.Name, cfg.Version, app.tools)
	srv := server.NewServer(cfg, app.service, mcpServer, app.metrics, log, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
