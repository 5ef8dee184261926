package middleware

import (
	"time"

	"candidate-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records count and latency per route template, so /candidates/:id
// stays one series regardless of the id.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
