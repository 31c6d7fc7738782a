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

type RideHandler struct {
	rideService services.RideService
	logger      *logger.Logger
}

func NewRideHandler(rideService services.RideService, log *logger.Logger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      log,
	}
}

// CreateRide registers a pending ride and returns it together with the
// candidate riders able to take it.
func (h *RideHandler) CreateRide(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.RideCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.rideService.CreateRide(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride requested successfully", response)
}

// GetAvailableRiders lists riders able to take a party of the given size.
// An empty list is a normal result, not an error.
func (h *RideHandler) GetAvailableRiders(c *gin.Context) {
	var request validators.AvailableRidersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	riders, err := h.rideService.GetAvailableRiders(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Available riders retrieved", riders)
}

func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride retrieved", ride)
}

// UpdateStatus drives the ride lifecycle state machine.
func (h *RideHandler) UpdateStatus(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	var request validators.RideStatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.UpdateStatus(c.Request.Context(), rideID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride status updated", ride)
}

// GetUserRides lists the caller's rides, optionally filtered by status.
func (h *RideHandler) GetUserRides(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	filter := c.DefaultQuery("filter", "all")

	rides, err := h.rideService.GetUserRides(c.Request.Context(), userID, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User rides retrieved", rides)
}

func (h *RideHandler) ListRides(c *gin.Context) {
	rides, err := h.rideService.ListRides(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rides retrieved", rides)
}

// GetVehicleCounts reports completed rides per vehicle type.
func (h *RideHandler) GetVehicleCounts(c *gin.Context) {
	counts, err := h.rideService.GetVehicleCounts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle ride counts retrieved", counts)
}
