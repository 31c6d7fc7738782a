package handlers

import (
	"ridelink/internal/services"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RiderHandler struct {
	riderService  services.RiderService
	ratingService services.RatingService
	logger        *logger.Logger
}

func NewRiderHandler(riderService services.RiderService, ratingService services.RatingService, log *logger.Logger) *RiderHandler {
	return &RiderHandler{
		riderService:  riderService,
		ratingService: ratingService,
		logger:        log,
	}
}

// ListRiders returns every rider, best reputation first.
func (h *RiderHandler) ListRiders(c *gin.Context) {
	riders, err := h.riderService.ListRiders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Riders retrieved", riders)
}

func (h *RiderHandler) GetRider(c *gin.Context) {
	riderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rider ID")
		return
	}

	rider, err := h.riderService.GetRider(c.Request.Context(), riderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider retrieved", rider)
}

func (h *RiderHandler) GetRiderStats(c *gin.Context) {
	riderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rider ID")
		return
	}

	stats, err := h.riderService.GetRiderStats(c.Request.Context(), riderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider stats retrieved", stats)
}

func (h *RiderHandler) CreateRider(c *gin.Context) {
	var request validators.RiderCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	rider, err := h.riderService.CreateRider(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Rider created successfully", rider)
}

func (h *RiderHandler) SetAvailability(c *gin.Context) {
	riderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rider ID")
		return
	}

	var request validators.AvailabilityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if request.IsAvailable == nil {
		utils.BadRequestResponse(c, "is_available is required")
		return
	}

	if err := h.riderService.SetAvailability(c.Request.Context(), riderID, *request.IsAvailable); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider availability updated", nil)
}

// GetRiderRatings lists ratings for rides the rider fulfilled, each with its
// reply thread.
func (h *RiderHandler) GetRiderRatings(c *gin.Context) {
	riderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rider ID")
		return
	}

	ratings, err := h.ratingService.GetRiderRatings(c.Request.Context(), riderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider ratings retrieved", ratings)
}
