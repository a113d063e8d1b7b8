package cmd

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/config"
	"github.com/vzahanych/weather-mcp-server/internal/tools"
)

func stdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout",
		Long:  `Serve the weather tools over the MCP stdio transport, for agent clients that launch the server as a subprocess. Logs go to stderr.`,
		Args:  cobra.NoArgs,
		RunE:  runStdio,
	}
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Serving MCP over stdio",
		zap.String("name", cfg.MCP.Name),
		zap.String("provider_mode", cfg.Provider.Mode))

	mcpServer := tools.NewServer(cfg.MCP.Name, cfg.Version, app.tools)
	if err := mcpServer.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("MCP session ended with error", zap.Error(err))
		return err
	}

	log.Info("MCP session closed")
	return nil
}
