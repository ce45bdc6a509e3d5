package apiutil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// TraceIDKey is the gin context key the request id is stored under.
	TraceIDKey = "trace_id"
)

// RequestID reuses an incoming X-Request-ID or mints a new one, stores it
// under TraceIDKey and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(TraceIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// TraceID returns the request id set by RequestID, if any.
func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
