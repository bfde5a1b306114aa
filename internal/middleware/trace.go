package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"hearth/internal/log"
)

// RequestIDKey is the gin context key carrying the request id.
const RequestIDKey = "request_id"

// Trace assigns every request an id and logs start and completion with
// a level derived from the response status.
func Trace() gin.HandlerFunc {
	base := log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		requestID := GenerateRequestID()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		ctx := log.IntoContext(c.Request.Context(), base.With(log.FieldRequestID, requestID))
		c.Request = c.Request.WithContext(ctx)

		slog.InfoContext(ctx, "HTTP request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldClientIP, c.ClientIP())

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.Log(ctx, level, "HTTP request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldStatusCode, status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldSuccess, status < 400)
	}
}

// GenerateRequestID creates a unique request id for tracing.
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// RequestID extracts the request id assigned by Trace.
func RequestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
