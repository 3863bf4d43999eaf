package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/horseradish/comparebot/internal/services"
)

// AuditLog records write operations (POST) to system_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		c.Next()

		clientID := GetClientID(c)
		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath())

		message := fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
		if clientID != "" {
			message = fmt.Sprintf("[%s] %s", clientID, message)
		}

		services.LogInfo(module, action, message, clientID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})
	}
}

// parseRouteInfo extracts module and action from a Gin route pattern.
// e.g. "/api/reports/upload" → module="reports", action="upload"
func parseRouteInfo(fullPath string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	segments := strings.Split(path, "/")

	module = "api"
	action = "request"
	if len(segments) > 0 && segments[0] != "" {
		module = segments[0]
	}
	if len(segments) > 1 && segments[1] != "" {
		action = segments[1]
	}
	return module, action
}
