package mongodb

import (
	"context"
	"fmt"
	"math"
	"time"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ratingRepository struct {
	collection *mongo.Collection
	replies    *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) interfaces.RatingRepository {
	return &ratingRepository{
		collection: db.Collection("ratings"),
		replies:    db.Collection("rating_replies"),
	}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}

	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error) {
	var rating models.Rating
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &rating, nil
}

func (r *ratingRepository) GetRideRating(ctx context.Context, rideID primitive.ObjectID) (*models.RideRating, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ride_id": rideID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"avg_rating":    bson.M{"$avg": "$rating"},
			"total_ratings": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate ride rating: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		AvgRating    float64 `bson:"avg_rating"`
		TotalRatings int64   `bson:"total_ratings"`
	}

	rating := &models.RideRating{}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode ride rating: %w", err)
		}
		rating.AverageRating = math.Round(result.AvgRating*10) / 10
		rating.TotalRatings = result.TotalRatings
	}

	return rating, nil
}

// GetByRiderID lists ratings on the rider's rides, newest first, joined with
// the rater's display fields and the ride's locations.
func (r *ratingRepository) GetByRiderID(ctx context.Context, riderID primitive.ObjectID) ([]*models.RiderRatingView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "rides",
			"localField":   "ride_id",
			"foreignField": "_id",
			"as":           "ride",
		}}},
		{{Key: "$unwind", Value: "$ride"}},
		{{Key: "$match", Value: bson.M{"ride.rider_id": riderID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$user",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$project", Value: bson.M{
			"ride_id":          1,
			"user_id":          1,
			"rating":           1,
			"comment":          1,
			"created_at":       1,
			"user_name":        "$user.name",
			"profile_picture":  "$user.profile_picture",
			"pickup_location":  "$ride.pickup_location",
			"dropoff_location": "$ride.dropoff_location",
			"pickup_time":      "$ride.pickup_time",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get rider ratings: %w", err)
	}
	defer cursor.Close(ctx)

	views := []*models.RiderRatingView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode rider ratings: %w", err)
	}

	return views, nil
}

// AverageForRider aggregates every rating across the rider's rides in one
// query, so concurrent submissions always recompute from the full set.
func (r *ratingRepository) AverageForRider(ctx context.Context, riderID primitive.ObjectID) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "rides",
			"localField":   "ride_id",
			"foreignField": "_id",
			"as":           "ride",
		}}},
		{{Key: "$unwind", Value: "$ride"}},
		{{Key: "$match", Value: bson.M{"ride.rider_id": riderID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"avg_rating":    bson.M{"$avg": "$rating"},
			"total_ratings": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to calculate rider rating: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		AvgRating    float64 `bson:"avg_rating"`
		TotalRatings int64   `bson:"total_ratings"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode rider rating: %w", err)
		}
		return math.Round(result.AvgRating*10) / 10, result.TotalRatings, nil
	}

	return 0, 0, nil
}

func (r *ratingRepository) CreateReply(ctx context.Context, reply *models.RatingReply) error {
	reply.ID = primitive.NewObjectID()
	reply.CreatedAt = time.Now()

	_, err := r.replies.InsertOne(ctx, reply)
	if err != nil {
		return fmt.Errorf("failed to create rating reply: %w", err)
	}

	return nil
}

func (r *ratingRepository) GetRepliesForRating(ctx context.Context, ratingID primitive.ObjectID) ([]models.RatingReply, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"rating_id": ratingID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$user",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"rating_id":  1,
			"user_id":    1,
			"reply_text": 1,
			"created_at": 1,
			"user_name":  "$user.name",
		}}},
	}

	cursor, err := r.replies.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating replies: %w", err)
	}
	defer cursor.Close(ctx)

	replies := []models.RatingReply{}
	for cursor.Next(ctx) {
		var row struct {
			ID        primitive.ObjectID `bson:"_id"`
			RatingID  primitive.ObjectID `bson:"rating_id"`
			UserID    primitive.ObjectID `bson:"user_id"`
			ReplyText string             `bson:"reply_text"`
			UserName  string             `bson:"user_name"`
			CreatedAt time.Time          `bson:"created_at"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode rating reply: %w", err)
		}
		replies = append(replies, models.RatingReply{
			ID:        row.ID,
			RatingID:  row.RatingID,
			UserID:    row.UserID,
			ReplyText: row.ReplyText,
			UserName:  row.UserName,
			CreatedAt: row.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating replies: %w", err)
	}

	return replies, nil
}

func (r *ratingRepository) GetReplyByID(ctx context.Context, id primitive.ObjectID) (*models.RatingReply, error) {
	var reply models.RatingReply
	err := r.replies.FindOne(ctx, bson.M{"_id": id}).Decode(&reply)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating reply: %w", err)
	}

	return &reply, nil
}

func (r *ratingRepository) DeleteReply(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.replies.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete rating reply: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}
