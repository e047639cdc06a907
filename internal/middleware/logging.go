package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one structured entry per request. A panicking handler is logged as a
// 500 and the panic is passed on to Recovery.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			r := recover()
			status := c.Writer.Status()
			if r != nil {
				status = http.StatusInternalServerError
			}

			entry := logger.WithFields(logrus.Fields{
				"correlation_id": c.GetString(CorrelationIDKey),
				"method":         c.Request.Method,
				"path":           requestPath(c),
				"status":         status,
				"latency_ms":     time.Since(start).Milliseconds(),
				"client_ip":      c.ClientIP(),
				"response_size":  c.Writer.Size(),
			})
			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("Request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("Request rejected")
			default:
				entry.Info("Request completed")
			}

			if r != nil {
				panic(r)
			}
		}()
		c.Next()
	}
}

// requestPath prefers the route template and falls back to the raw path for unmatched
// routes and preflights.
func requestPath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// Recovery turns a handler panic into a 500 and logs it.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"correlation_id": c.GetString(CorrelationIDKey),
					"method":         c.Request.Method,
					"path":           requestPath(c),
					"panic":          r,
				}).Error("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_SERVER_ERROR",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
