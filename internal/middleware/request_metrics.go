package middleware

import (
	"strconv"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestMetrics tags each request with an id and records its latency.
func RequestMetrics(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency_ms": elapsed.Milliseconds(),
			"client_ip":  c.ClientIP(),
		}).Debug("HTTP request")
	}
}
