package middleware

import (
	"restockwatch/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request ID.
	RequestIDKey = "RequestID"
)

// RequestID reuses an incoming X-Request-ID or generates one, and attaches
// a request-scoped logger to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx := logger.WithLogger(c.Request.Context(), logger.With(logger.RequestIDField(requestID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
