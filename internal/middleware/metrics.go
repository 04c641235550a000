package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/metrics"
)

func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route template keeps label cardinality bounded; unmatched
		// paths all collapse into one label.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		collector.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
