package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// route template, not the raw path, to bound label cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, respSize)
	}
}

// Timer measures a relay dispatch
type Timer struct {
	start     time.Time
	metrics   *Metrics
	transport string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, transport string) *Timer {
	return &Timer{
		start:     time.Now(),
		metrics:   metrics,
		transport: transport,
	}
}

// Stop stops the timer and records the message outcome
func (t *Timer) Stop(query, outcome string) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordRelayMessage(t.transport, query, outcome, time.Since(t.start))
}
