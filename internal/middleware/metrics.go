package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/metrics"
)

// Metrics records request counts and latency labelled by route template
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
