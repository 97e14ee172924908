package middleware

import (
	"time"

	"finance-tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request, plus any errors handlers attached.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if user, ok := CurrentUser(c); ok {
			args = append(args, "user_id", user.ID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
			log.Error("request", args...)
			return
		}
		if c.Writer.Status() >= 500 {
			log.Error("request", args...)
			return
		}
		log.Info("request", args...)
	}
}
