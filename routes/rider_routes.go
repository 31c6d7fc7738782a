package routes

import (
	"ridelink/internal/handlers"
	"ridelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRiderRoutes wires the rider registry endpoints.
func SetupRiderRoutes(r *gin.RouterGroup, riderHandler *handlers.RiderHandler, jwtSecret string) {
	riders := r.Group("/riders")
	{
		riders.GET("", riderHandler.ListRiders)
		riders.GET("/:id", riderHandler.GetRider)
		riders.GET("/:id/stats", riderHandler.GetRiderStats)
		riders.GET("/:id/ratings", riderHandler.GetRiderRatings)
	}

	protected := r.Group("/riders")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.POST("", riderHandler.CreateRider)
		protected.PUT("/:id/availability", riderHandler.SetAvailability)
	}
}
