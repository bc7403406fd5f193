package middleware

import (
	"time"

	"places-autocomplete/pkg/logger"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if controlID := c.GetString("control_id"); controlID != "" {
			logger.GlobalLogger.Printf("%s %s %d %v control_id=%s", method, path, status, latency, controlID)
			return
		}
		logger.GlobalLogger.Printf("%s %s %d %v", method, path, status, latency)
	}
}
