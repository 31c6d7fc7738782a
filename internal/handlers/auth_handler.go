package handlers

import (
	"ridelink/internal/middleware"
	"ridelink/internal/services"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log,
	}
}

// Register creates a user account and returns it with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "User registered successfully", response)
}

// Login authenticates by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

// UpdateNotificationToken stores the caller's push token.
func (h *AuthHandler) UpdateNotificationToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.NotificationTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.UpdateNotificationToken(c.Request.Context(), userID, request.OneSignalToken); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification token updated", nil)
}

// ToggleNotifications flips the caller's notification preference.
func (h *AuthHandler) ToggleNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.NotificationToggleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if request.Enabled == nil {
		utils.BadRequestResponse(c, "enabled is required")
		return
	}

	if err := h.authService.ToggleNotifications(c.Request.Context(), userID, *request.Enabled); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification preference updated", nil)
}
