package middleware

import (
	"strconv"
	"time"

	"actalibro/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records per-request counters and latency. Uses the route template
// (c.FullPath) rather than the raw URL to keep label cardinality bounded.
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		reg.HTTPRequestsTotal.WithLabelValues(endpoint, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		reg.HTTPRequestDuration.WithLabelValues(endpoint, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
