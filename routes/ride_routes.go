package routes

import (
	"ridelink/internal/handlers"
	"ridelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes wires the ride ledger endpoints.
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, ratingHandler *handlers.RatingHandler, jwtSecret string) {
	rides := r.Group("/rides")
	{
		rides.GET("", rideHandler.ListRides)
		rides.GET("/counts", rideHandler.GetVehicleCounts)
		rides.GET("/:id", rideHandler.GetRide)
		rides.GET("/:id/rating", ratingHandler.GetRideRating)
	}

	protected := r.Group("/rides")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.POST("", rideHandler.CreateRide)
		protected.POST("/available-riders", rideHandler.GetAvailableRiders)
		protected.GET("/user-rides", rideHandler.GetUserRides)
		protected.PUT("/:id/status", rideHandler.UpdateStatus)
	}
}
