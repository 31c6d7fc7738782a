package handlers

import (
	"errors"
	"net/http"

	"ridelink/internal/services"
	"ridelink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// handleServiceError maps service-layer errors onto the response envelope.
// Anything unrecognized becomes a generic 500 so storage details never leak.
func handleServiceError(c *gin.Context, err error) {
	var rateLimited *services.RateLimitedError
	var invalidTransition *services.InvalidTransitionError
	var fieldError *services.ValidationError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		utils.ValidationErrorResponse(c, details)
	case errors.As(err, &fieldError):
		utils.ValidationErrorResponse(c, map[string]string{fieldError.Field: fieldError.Message})
	case errors.As(err, &rateLimited):
		utils.TooManyRequestsResponse(c, rateLimited.Error())
	case errors.As(err, &invalidTransition):
		utils.ConflictResponse(c, invalidTransition.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrAlreadyRated):
		utils.ConflictResponse(c, services.ErrAlreadyRated.Error())
	case errors.Is(err, services.ErrRideNotCompleted):
		utils.ConflictResponse(c, services.ErrRideNotCompleted.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	default:
		utils.InternalServerErrorResponse(c)
	}
}
