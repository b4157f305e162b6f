package middleware

import (
	"strconv"
	"time"

	"trungminh/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request durations labelled by route template, so IDs in
// paths do not blow up label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
