// Package tools exposes the weather operations as MCP tools. Results are
// JSON text content; failures come back as tool results flagged IsError
// carrying an error object, never as protocol faults.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/weather"
	"github.com/vzahanych/weather-mcp-server/pkg/logger"
)

const (
	ToolCurrentWeather = "get_current_weather"
	ToolForecast       = "get_forecast"
	ToolAlerts         = "get_weather_alerts"
	ToolBriefing       = "get_weather_briefing"
)

type CurrentWeatherInput struct {
	Location string `json:"location"`
	Units    string `json:"units,omitempty"`
}

type ForecastInput struct {
	Location string `json:"location"`
	Days     *int   `json:"days,omitempty"`
	Units    string `json:"units,omitempty"`
}

type AlertsInput struct {
	Location string `json:"location"`
}

type BriefingInput struct {
	Location string `json:"location"`
	Units    string `json:"units,omitempty"`
}

type Handlers struct {
	service *weather.Service
	logger  *zap.Logger
}

func New(service *weather.Service, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// NewServer builds an MCP server with every weather tool registered.
func NewServer(name, version string, h *Handlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	h.Register(server)
	return server
}

func (h *Handlers) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolCurrentWeather,
		Description: "Get current weather conditions for a location. Conditions come from the forecast period closest to now.",
		InputSchema: currentWeatherSchema(),
	}, h.CurrentWeather)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolForecast,
		Description: "Get a multi-day weather forecast (day and night periods) for a location.",
		InputSchema: forecastSchema(),
	}, h.Forecast)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolAlerts,
		Description: "Get active weather alerts for a location. An empty list means no active alerts.",
		InputSchema: alertsSchema(),
	}, h.Alerts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolBriefing,
		Description: "Get current conditions together with active alerts for a location.",
		InputSchema: briefingSchema(),
	}, h.Briefing)

	h.logger.Info("MCP tools registered",
		zap.Strings("tools", []string{ToolCurrentWeather, ToolForecast, ToolAlerts, ToolBriefing}))
}

func (h *Handlers) CurrentWeather(ctx context.Context, req *mcp.CallToolRequest, in CurrentWeatherInput) (*mcp.CallToolResult, any, error) {
	ctx, reqLogger := h.begin(ctx, req, ToolCurrentWeather)
	resp, err := h.service.CurrentWeather(ctx, weather.CurrentRequest{
		Location: in.Location,
		Units:    in.Units,
	})
	return result(reqLogger, resp, err)
}

func (h *Handlers) Forecast(ctx context.Context, req *mcp.CallToolRequest, in ForecastInput) (*mcp.CallToolResult, any, error) {
	ctx, reqLogger := h.begin(ctx, req, ToolForecast)
	resp, err := h.service.Forecast(ctx, weather.ForecastRequest{
		Location: in.Location,
		Days:     in.Days,
		Units:    in.Units,
	})
	return result(reqLogger, resp, err)
}

func (h *Handlers) Alerts(ctx context.Context, req *mcp.CallToolRequest, in AlertsInput) (*mcp.CallToolResult, any, error) {
	ctx, reqLogger := h.begin(ctx, req, ToolAlerts)
	resp, err := h.service.Alerts(ctx, weather.AlertsRequest{Location: in.Location})
	return result(reqLogger, resp, err)
}

func (h *Handlers) Briefing(ctx context.Context, req *mcp.CallToolRequest, in BriefingInput) (*mcp.CallToolResult, any, error) {
	ctx, reqLogger := h.begin(ctx, req, ToolBriefing)
	resp, err := h.service.Briefing(ctx, weather.CurrentRequest{
		Location: in.Location,
		Units:    in.Units,
	})
	return result(reqLogger, resp, err)
}

// begin tags the call with a request ID, reusing one already on the context.
func (h *Handlers) begin(ctx context.Context, req *mcp.CallToolRequest, tool string) (context.Context, *zap.Logger) {
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = logger.WithRequestID(ctx, requestID)
	}

	fields := []zap.Field{
		zap.String("tool", tool),
		zap.String("request_id", requestID),
	}
	if req != nil && req.Session != nil {
		fields = append(fields, zap.String("session_id", req.Session.ID()))
	}

	reqLogger := h.logger.With(fields...)
	reqLogger.Debug("Tool called")
	return ctx, reqLogger
}

func result(reqLogger *zap.Logger, v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		body := weather.ToErrorBody(err)
		reqLogger.Warn("Tool call failed",
			zap.String("code", body.Error),
			zap.Error(err))
		return textResult(body, true)
	}
	return textResult(v, false)
}

func textResult(v any, isError bool) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil, nil
}
