package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/pkg/telemetry"
)

// HTTPMetricsKey is the gin context key under which the middleware exposes
// itself to the metrics handler.
const HTTPMetricsKey = "http_metrics"

const maxDurations = 1000

type RequestKey struct {
	Method string
	Route  string
	Status string
}

// HTTPSnapshot is a point-in-time copy of the HTTP request metrics.
type HTTPSnapshot struct {
	RequestsTotal      map[RequestKey]int64
	AvgDurationSeconds float64
	ActiveRequests     int64
}

type MetricsMiddleware struct {
	logger *zap.Logger
	tele   *telemetry.Telemetry

	mutex            sync.RWMutex
	requestsTotal    map[RequestKey]int64
	requestDurations []float64
	activeRequests   int64
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger:           logger,
		tele:             tele,
		requestsTotal:    make(map[RequestKey]int64),
		requestDurations: make([]float64, 0, maxDurations),
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(HTTPMetricsKey, m)

		m.mutex.Lock()
		m.activeRequests++
		m.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := RequestKey{
			Method: c.Request.Method,
			Route:  route,
			Status: strconv.Itoa(c.Writer.Status()),
		}

		m.mutex.Lock()
		m.requestsTotal[key]++
		m.requestDurations = append(m.requestDurations, duration)
		m.activeRequests--

		// Keep only the most recent durations
		if len(m.requestDurations) > maxDurations {
			m.requestDurations = m.requestDurations[len(m.requestDurations)-maxDurations:]
		}
		m.mutex.Unlock()

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", key.Method),
				zap.String("route", route),
				zap.String("status", key.Status),
				zap.Float64("duration", duration))
		}
	}
}

func (m *MetricsMiddleware) Snapshot() HTTPSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := HTTPSnapshot{
		RequestsTotal:  make(map[RequestKey]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		snap.RequestsTotal[k] = v
	}

	if len(m.requestDurations) > 0 {
		sum := 0.0
		for _, d := range m.requestDurations {
			sum += d
		}
		snap.AvgDurationSeconds = sum / float64(len(m.requestDurations))
	}

	return snap
}
