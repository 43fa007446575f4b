package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/recovery-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics observes each request against the route template so patient ids stay out of labels.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
