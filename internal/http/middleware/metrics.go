package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/observability"
)

// streamRoutes are long-lived; they feed the open-streams gauge instead of
// the latency histogram.
var streamRoutes = map[string]bool{
	"/api/session/events": true,
}

// Metrics records per-route request counts and latency. Unmatched paths
// share one "unmatched" label so scanners cannot grow the series count.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if streamRoutes[route] {
			m.SSEStreamOpened()
			defer m.SSEStreamClosed()
			c.Next()
			return
		}

		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		c.Next()

		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
