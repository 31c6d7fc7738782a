package interfaces

import (
	"context"

	"ridelink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error)

	// GetRideRating returns the mean (1 decimal) and count for one ride;
	// a ride with no ratings reports 0/0.
	GetRideRating(ctx context.Context, rideID primitive.ObjectID) (*models.RideRating, error)

	// GetByRiderID returns all ratings on rides the rider fulfilled, newest
	// first, joined with rater display fields and ride locations.
	GetByRiderID(ctx context.Context, riderID primitive.ObjectID) ([]*models.RiderRatingView, error)

	// AverageForRider computes the aggregate over all ratings for the
	// rider's rides in a single query, so concurrent submissions cannot
	// clobber each other's contribution.
	AverageForRider(ctx context.Context, riderID primitive.ObjectID) (float64, int64, error)

	// Replies
	CreateReply(ctx context.Context, reply *models.RatingReply) error
	GetRepliesForRating(ctx context.Context, ratingID primitive.ObjectID) ([]models.RatingReply, error)
	GetReplyByID(ctx context.Context, id primitive.ObjectID) (*models.RatingReply, error)
	DeleteReply(ctx context.Context, id primitive.ObjectID) error
}
