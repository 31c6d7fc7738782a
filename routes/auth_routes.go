package routes

import (
	"ridelink/internal/handlers"
	"ridelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes wires registration, login and notification preferences.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.PUT("/notification-token", authHandler.UpdateNotificationToken)
		protected.PUT("/notifications", authHandler.ToggleNotifications)
	}
}
