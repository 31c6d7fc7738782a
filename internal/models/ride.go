package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// IsValid reports whether s is one of the five lifecycle statuses.
func (s RideStatus) IsValid() bool {
	switch s {
	case RideStatusPending, RideStatusAccepted, RideStatusInProgress,
		RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// Ride is a customer transportation request. RiderID stays nil while the ride
// is pending; it is set by the first pending→accepted transition. Price is set
// at or after matching, never before.
type Ride struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	RiderID         *primitive.ObjectID `json:"rider_id" bson:"rider_id,omitempty"`
	PickupLocation  string              `json:"pickup_location" bson:"pickup_location" validate:"required"`
	DropoffLocation string              `json:"dropoff_location" bson:"dropoff_location" validate:"required"`
	PickupDate      string              `json:"pickup_date" bson:"pickup_date" validate:"required"`
	PickupTime      string              `json:"pickup_time" bson:"pickup_time" validate:"required"`
	Passengers      int                 `json:"passengers" bson:"passengers" validate:"required,min=1"`
	Status          RideStatus          `json:"status" bson:"status" default:"pending"`
	Price           *float64            `json:"price,omitempty" bson:"price,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// RideRiderInfo is the denormalized rider sub-object attached to ride
// listings once a rider is matched.
type RideRiderInfo struct {
	Name        string      `json:"name"`
	VehicleType VehicleType `json:"vehicle_type"`
	Rating      float64     `json:"rating"`
}

// RideWithRider augments a ride with its matched rider's display fields.
type RideWithRider struct {
	Ride  `bson:",inline"`
	Rider *RideRiderInfo `json:"rider,omitempty" bson:"-"`
}

// RideRating is the aggregate customer score for a single ride.
type RideRating struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// VehicleRideCount tracks completed rides per vehicle type, bumped once per
// ride on the transition into completed.
type VehicleRideCount struct {
	VehicleType    VehicleType `json:"vehicle_type" bson:"vehicle_type"`
	CompletedRides int64       `json:"completed_rides" bson:"completed_rides"`
}
