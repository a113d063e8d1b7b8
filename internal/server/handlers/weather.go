package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/server/utils"
	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

// WeatherHandler mirrors the MCP tools as JSON endpoints.
type WeatherHandler struct {
	service *weather.Service
	logger  *zap.Logger
}

func NewWeatherHandler(service *weather.Service, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WeatherHandler) GetCurrent(c *gin.Context) {
	var q CurrentQuery
	if !h.bind(c, &q) {
		return
	}

	resp, err := h.service.CurrentWeather(utils.GetContextFromGinContext(c), weather.CurrentRequest{
		Location: q.Location,
		Units:    q.Units,
	})
	h.respond(c, resp, err)
}

func (h *WeatherHandler) GetForecast(c *gin.Context) {
	var q ForecastQuery
	if !h.bind(c, &q) {
		return
	}

	resp, err := h.service.Forecast(utils.GetContextFromGinContext(c), weather.ForecastRequest{
		Location: q.Location,
		Days:     q.Days,
		Units:    q.Units,
	})
	h.respond(c, resp, err)
}

func (h *WeatherHandler) GetAlerts(c *gin.Context) {
	var q AlertsQuery
	if !h.bind(c, &q) {
		return
	}

	resp, err := h.service.Alerts(utils.GetContextFromGinContext(c), weather.AlertsRequest{
		Location: q.Location,
	})
	h.respond(c, resp, err)
}

func (h *WeatherHandler) GetBriefing(c *gin.Context) {
	var q CurrentQuery
	if !h.bind(c, &q) {
		return
	}

	resp, err := h.service.Briefing(utils.GetContextFromGinContext(c), weather.CurrentRequest{
		Location: q.Location,
		Units:    q.Units,
	})
	h.respond(c, resp, err)
}

func (h *WeatherHandler) bind(c *gin.Context, q any) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		h.logger.Warn("Invalid query parameters",
			zap.String("request_id", utils.GetRequestIDFromGinContext(c)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, weather.ErrorBody{
			Error:   weather.CodeInvalidParameter,
			Message: err.Error(),
		})
		return false
	}
	return true
}

func (h *WeatherHandler) respond(c *gin.Context, resp any, err error) {
	if err != nil {
		body := weather.ToErrorBody(err)
		utils.GetSpanFromGinContext(c).RecordError(err)
		_ = c.Error(err)
		c.JSON(StatusFor(body.Error), body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StatusFor maps an error code to the REST status.
func StatusFor(code string) int {
	switch code {
	case weather.CodeInvalidParameter:
		return http.StatusBadRequest
	case weather.CodeNoData:
		return http.StatusNotFound
	case weather.CodeProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
