package handlers

import (
	"net/http"
	"strings"

	"packing_tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	operatorKey     = "operator"
)

// RequestID tags every request so log lines can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AuthMiddleware requires a Bearer token signed with secret. An empty secret
// lets every request through.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondFail(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		operator, err := auth.VerifyToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			respondFail(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(operatorKey, operator)
		c.Next()
	}
}

func operatorOf(c *gin.Context) string {
	if v, ok := c.Get(operatorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "anonymous"
}
