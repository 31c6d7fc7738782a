package handlers

import (
	"ridelink/internal/middleware"
	"ridelink/internal/services"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingHandler struct {
	ratingService services.RatingService
	logger        *logger.Logger
}

func NewRatingHandler(ratingService services.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        log,
	}
}

// CreateRating records a score for a completed ride.
func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.RatingCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	rating, err := h.ratingService.CreateRating(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Rating submitted successfully", rating)
}

// GetRideRating returns the aggregate score for one ride.
func (h *RatingHandler) GetRideRating(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	rating, err := h.ratingService.GetRideRating(c.Request.Context(), rideID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride rating retrieved", rating)
}

// CreateReply appends to a rating's reply thread.
func (h *RatingHandler) CreateReply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ReplyCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	reply, err := h.ratingService.CreateReply(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Reply added successfully", reply)
}

// DeleteReply removes a reply; only its author may do so.
func (h *RatingHandler) DeleteReply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	replyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reply ID")
		return
	}

	if err := h.ratingService.DeleteReply(c.Request.Context(), userID, replyID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Reply deleted successfully", nil)
}
