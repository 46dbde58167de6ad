package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the listed origins. With no list every origin is allowed,
// without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allow := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allow[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			allowed := false
			if len(allow) == 0 {
				c.Header("Access-Control-Allow-Origin", "*")
				allowed = true
			} else if _, ok := allow[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				allowed = true
			}
			if allowed {
				c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				c.Header("Access-Control-Expose-Headers", RequestIDHeader)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
