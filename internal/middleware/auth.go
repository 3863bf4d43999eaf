package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/horseradish/comparebot/internal/utils"
)

const ContextClientID = "client_id"

// AuthRequired checks for a valid Bearer token and stores the asserted
// client id in the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextClientID, claims.ClientID)
		c.Next()
	}
}

// GetClientID returns the asserted client id for the current request, or ""
// when the request is unauthenticated.
func GetClientID(c *gin.Context) string {
	if id, exists := c.Get(ContextClientID); exists {
		return id.(string)
	}
	return ""
}
