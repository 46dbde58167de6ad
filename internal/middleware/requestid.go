package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID tags each request with an id, taken from X-Request-ID when the
// caller sent one, and attaches a logger carrying it to the request context.
func RequestID(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		l := logger.With().Str(RequestIDKey, rid).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
