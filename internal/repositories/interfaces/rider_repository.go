package interfaces

import (
	"context"

	"ridelink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RiderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, rider *models.Rider) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Rider, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Listing and matching. List orders by rating desc, total_rides desc;
	// FindAvailable returns available riders with capacity for the party.
	List(ctx context.Context) ([]*models.Rider, error)
	FindAvailable(ctx context.Context, passengers int) ([]*models.Rider, error)

	// Derived stats. IncrementTotalRides adds exactly one completed ride;
	// SetRating stores the recomputed aggregate.
	IncrementTotalRides(ctx context.Context, id primitive.ObjectID) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
}
