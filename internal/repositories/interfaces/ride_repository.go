package interfaces

import (
	"context"

	"ridelink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	List(ctx context.Context) ([]*models.Ride, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, status models.RideStatus) ([]*models.Ride, error)

	// TransitionStatus moves a ride from one status to another in a single
	// conditional update. It reports whether the ride was actually modified,
	// which is false when another writer got there first; callers rely on
	// that to keep completion side effects idempotent.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.RideStatus, riderID *primitive.ObjectID, price *float64) (bool, error)

	// Completed-ride counters.
	CountCompletedByRider(ctx context.Context, riderID primitive.ObjectID) (int64, error)
	IncrementVehicleCount(ctx context.Context, vehicleType models.VehicleType) error
	GetVehicleCounts(ctx context.Context) ([]*models.VehicleRideCount, error)
}
