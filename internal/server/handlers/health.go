package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

const serverTitle = "Weather MCP Server"

type HealthHandler struct {
	service   *weather.Service
	version   string
	mcpPath   string
	logger    *zap.Logger
	startTime time.Time
}

func NewHealthHandler(service *weather.Service, version, mcpPath string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service:   service,
		version:   version,
		mcpPath:   mcpPath,
		logger:    logger,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:   "ok",
		Server:   serverTitle,
		Version:  h.version,
		Provider: h.service.ProviderName(),
		DataMode: string(h.service.DataMode()),
		MCPPath:  h.mcpPath,
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Health reports "degraded" while the server is serving demo data.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	mode := h.service.DataMode()
	if mode == weather.DataModeDemo {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Provider:  h.service.ProviderName(),
		DataMode:  string(mode),
	})
}
