package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleType string

const (
	VehicleTypeBike    VehicleType = "Bike"
	VehicleTypeCar     VehicleType = "Car"
	VehicleTypeScooter VehicleType = "Scooter"
)

// DefaultCapacity returns how many passengers a vehicle of this type carries
// when the rider does not declare a capacity of their own.
func (v VehicleType) DefaultCapacity() int {
	switch v {
	case VehicleTypeCar:
		return 4
	case VehicleTypeScooter:
		return 2
	default:
		return 1
	}
}

// Rider is a driver profile. Rating and TotalRides are derived values: they
// are written only by the rating aggregation and ride completion paths, never
// directly from a client request.
type Rider struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID          *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name            string              `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone           string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Email           string              `json:"email,omitempty" bson:"email,omitempty"`
	VehicleType     VehicleType         `json:"vehicle_type" bson:"vehicle_type" validate:"required"`
	LicenseNumber   string              `json:"license_number,omitempty" bson:"license_number,omitempty"`
	ExperienceYears int                 `json:"experience_years" bson:"experience_years" default:"0"`
	Capacity        int                 `json:"capacity" bson:"capacity"`
	Rating          float64             `json:"rating" bson:"rating" default:"0"`
	TotalRides      int64               `json:"total_rides" bson:"total_rides" default:"0"`
	IsAvailable     bool                `json:"is_available" bson:"is_available" default:"true"`
	ProfileImage    string              `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// RiderStats is the public reputation summary exposed per rider.
type RiderStats struct {
	CompletedRides int64   `json:"completed_rides"`
	TotalRatings   int64   `json:"total_ratings"`
	AverageRating  float64 `json:"average_rating"`
}
