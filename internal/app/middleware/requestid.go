// Package middleware provides shared gin middleware.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID is the header carrying the request correlation ID.
const HeaderXRequestID = "X-Request-ID"

// RequestID attaches a correlation ID to each request, reusing the caller's
// when present, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(HeaderXRequestID, rid)
		c.Next()
	}
}
