package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp-server/internal/server/middlewares"
)

type providerKey struct {
	provider  string
	operation string
}

// AppMetrics holds application-level metrics
type AppMetrics struct {
	mutex          sync.RWMutex
	providerCalls  map[providerKey]int64
	providerErrors map[providerKey]int64
}

// MetricsHandler serves /metrics and records provider calls made by the
// weather service.
type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			providerCalls:  make(map[providerKey]int64),
			providerErrors: make(map[providerKey]int64),
		},
	}
}

// RecordProviderCall records one upstream call.
func (h *MetricsHandler) RecordProviderCall(ctx context.Context, provider, operation string, success bool) {
	key := providerKey{provider: provider, operation: operation}

	h.appMetrics.mutex.Lock()
	h.appMetrics.providerCalls[key]++
	if !success {
		h.appMetrics.providerErrors[key]++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format. HTTP metrics are
// injected into the gin context by the metrics middleware.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if httpMetrics := h.getHTTPMetricsFromContext(c); httpMetrics != nil {
		snap := httpMetrics.Snapshot()

		keys := make([]middlewares.RequestKey, 0, len(snap.RequestsTotal))
		for k := range snap.RequestsTotal {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "http_requests_total{method=%q,route=%q,status=%q} %d\n",
				k.Method, k.Route, k.Status, snap.RequestsTotal[k])
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		fmt.Fprintf(&b, "http_request_duration_seconds_avg %.6f\n", snap.AvgDurationSeconds)

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		fmt.Fprintf(&b, "http_active_requests %d\n", snap.ActiveRequests)
		b.WriteString("\n")
	}

	h.appMetrics.mutex.RLock()
	writeProviderCounter(&b, "weather_provider_calls_total", "Total weather provider calls", h.appMetrics.providerCalls)
	b.WriteString("\n")
	writeProviderCounter(&b, "weather_provider_errors_total", "Total failed weather provider calls", h.appMetrics.providerErrors)
	h.appMetrics.mutex.RUnlock()

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeProviderCounter(b *strings.Builder, name, help string, counts map[providerKey]int64) {
	keys := make([]providerKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].provider != keys[j].provider {
			return keys[i].provider < keys[j].provider
		}
		return keys[i].operation < keys[j].operation
	})

	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s counter\n", name)
	for _, k := range keys {
		fmt.Fprintf(b, "%s{provider=%q,operation=%q} %d\n", name, k.provider, k.operation, counts[k])
	}
}

func (h *MetricsHandler) getHTTPMetricsFromContext(c *gin.Context) *middlewares.MetricsMiddleware {
	if value, exists := c.Get(middlewares.HTTPMetricsKey); exists {
		if metrics, ok := value.(*middlewares.MetricsMiddleware); ok {
			return metrics
		}
	}
	return nil
}
