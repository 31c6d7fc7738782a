package routes

import (
	"ridelink/internal/handlers"
	"ridelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRatingRoutes wires rating submission and the reply thread.
func SetupRatingRoutes(r *gin.RouterGroup, ratingHandler *handlers.RatingHandler, jwtSecret string) {
	ratings := r.Group("/ratings")
	ratings.Use(middleware.AuthRequired(jwtSecret))
	{
		ratings.POST("", ratingHandler.CreateRating)
		ratings.POST("/reply", ratingHandler.CreateReply)
		ratings.DELETE("/reply/:id", ratingHandler.DeleteReply)
	}
}
