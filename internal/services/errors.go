package services

import (
	"errors"
	"fmt"
	"time"

	"ridelink/internal/models"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not allowed")
	ErrRideNotCompleted   = errors.New("can only rate completed rides")
	ErrAlreadyRated       = errors.New("ride already rated by this user")
)

// RateLimitedError reports a throttled login attempt along with how long the
// caller has to wait before the window opens again.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	minutes := int(e.RetryAfter.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("too many login attempts, try again in %d minute(s)", minutes)
}

// ValidationError reports a request field that failed a boundary check the
// struct tags cannot express, such as a malformed object id.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError is returned when a status update violates the ride
// lifecycle state machine.
type InvalidTransitionError struct {
	From models.RideStatus
	To   models.RideStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition ride from %s to %s", e.From, e.To)
}
