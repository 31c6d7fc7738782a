package utils

import "time"

// Application Constants
const (
	AppName    = "RideLink"
	AppVersion = "1.0.0"

	// Authentication
	JWTTokenTTL       = 24 * time.Hour
	PasswordMinLength = 6
	LoginRateLimit    = 5
	LoginLockoutTime  = 15 * time.Minute

	// Ride Constants
	MinPassengers = 1
	MaxPassengers = 4

	// Rating Constants
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500

	// Chat
	MaxMessageLength = 1000
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Something went wrong. Please try again."
	ErrUnauthorized     = "Authentication required"
	ErrForbidden        = "You do not have permission to perform this action"
)
