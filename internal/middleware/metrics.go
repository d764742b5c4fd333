package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/service"
)

// Metrics records request duration and count per route using the metrics
// service. A nil service disables instrumentation.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), duration)
	}
}
