package middleware

import (
	"strings"
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once
	httpMetrics *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP instrumentation. It registers on
// the default registry so /metrics also exposes the application collectors;
// repeated calls return the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	metricsOnce.Do(func() {
		httpMetrics = fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, serviceName, "http", "", nil)
	})
	return httpMetrics
}

// MetricsMiddleware records HTTP metrics for everything except the scrape
// endpoint and websocket upgrades, which would otherwise dominate latency buckets.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	instrument := p.Middleware
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || strings.HasPrefix(path, "/api/ws") {
			return c.Next()
		}
		return instrument(c)
	}
}
