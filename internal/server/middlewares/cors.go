package middlewares

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vzahanych/weather-mcp-server/internal/config"
)

// CORSMiddleware allows browser clients to reach the REST and MCP endpoints.
// Preflight requests are answered here and never reach the handlers.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			RequestIDHeader, "Mcp-Session-Id", "Mcp-Protocol-Version", "Last-Event-ID",
		},
		ExposeHeaders: []string{RequestIDHeader, "Mcp-Session-Id"},
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(cfg.AllowOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}

	return cors.New(c)
}
