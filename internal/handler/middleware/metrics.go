package middleware

import (
	"strconv"
	"time"

	"lagoon-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics records per-route latency. Unmatched paths are grouped
// under "unmatched" to keep the route label bounded.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
