package main

import (
	"github.com/gin-gonic/gin"
	"github.com/horseradish/comparebot/internal/handlers"
	"github.com/horseradish/comparebot/internal/middleware"
	"github.com/horseradish/comparebot/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	// Login is brute-forceable, uploads are expensive. Both get IP limits.
	loginLimiter := middleware.NewRateLimiter(1, 5)
	uploadLimiter := middleware.NewRateLimiter(2, 10)

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentClient)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			protected.POST("/reports/upload", uploadLimiter.Middleware(), svc.reportHandler.Upload)
			protected.GET("/reports/compare", svc.reportHandler.Compare)
			protected.GET("/reports", svc.reportHandler.List)
		}
	}
}
