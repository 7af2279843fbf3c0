package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"toolfinder-backend/internal/shared/telemetry"
)

const logFieldsKey = "logFields"

// SetLogField attaches a field to the request.complete log line.
func SetLogField(c *gin.Context, key string, value any) {
	if c == nil {
		return
	}
	m, _ := c.Get(logFieldsKey)
	fields, ok := m.(map[string]any)
	if !ok {
		fields = map[string]any{}
		c.Set(logFieldsKey, fields)
	}
	fields[key] = value
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get("isGuest")
		fields := map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"is_guest":    isGuest,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		// Handlers annotate the request with domain fields through SetLogField.
		if extra, ok := c.Get(logFieldsKey); ok {
			if m, ok := extra.(map[string]any); ok {
				for k, v := range m {
					fields[k] = v
				}
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
