package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogMiddleware logs one line per completed request using the
// request-scoped logger attached by RequestLoggerMiddleware. The user id is
// read after the handler chain so authenticated requests carry it even
// though auth runs later in the chain.
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		l, ok := c.Get("logger")
		if !ok {
			return
		}
		log, ok := l.(*zap.SugaredLogger)
		if !ok || log == nil {
			return
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if uid := UserID(c); uid != "" {
			fields = append(fields, "user_id", uid)
		}
		log.Infow("http_access", fields...)
	}
}
