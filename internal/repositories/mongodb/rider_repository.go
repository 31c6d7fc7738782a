package mongodb

import (
	"context"
	"fmt"
	"time"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type riderRepository struct {
	collection *mongo.Collection
}

func NewRiderRepository(db *mongo.Database) interfaces.RiderRepository {
	return &riderRepository{
		collection: db.Collection("riders"),
	}
}

func (r *riderRepository) Create(ctx context.Context, rider *models.Rider) error {
	rider.ID = primitive.NewObjectID()
	rider.CreatedAt = time.Now()
	rider.UpdatedAt = time.Now()
	if rider.Capacity <= 0 {
		rider.Capacity = rider.VehicleType.DefaultCapacity()
	}

	_, err := r.collection.InsertOne(ctx, rider)
	if err != nil {
		return fmt.Errorf("failed to create rider: %w", err)
	}

	return nil
}

func (r *riderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error) {
	var rider models.Rider
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}

	return &rider, nil
}

func (r *riderRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Rider, error) {
	if len(ids) == 0 {
		return []*models.Rider{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get riders: %w", err)
	}
	defer cursor.Close(ctx)

	var riders []*models.Rider
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, fmt.Errorf("failed to decode riders: %w", err)
	}

	return riders, nil
}

func (r *riderRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update rider: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

// List returns every rider, best reputation first.
func (r *riderRepository) List(ctx context.Context) ([]*models.Rider, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "total_rides", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}
	defer cursor.Close(ctx)

	riders := []*models.Rider{}
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, fmt.Errorf("failed to decode riders: %w", err)
	}

	return riders, nil
}

// FindAvailable returns available riders whose vehicle fits the party,
// ordered by reputation so the best match comes first.
func (r *riderRepository) FindAvailable(ctx context.Context, passengers int) ([]*models.Rider, error) {
	filter := bson.M{
		"is_available": true,
		"capacity":     bson.M{"$gte": passengers},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "total_rides", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find available riders: %w", err)
	}
	defer cursor.Close(ctx)

	riders := []*models.Rider{}
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, fmt.Errorf("failed to decode riders: %w", err)
	}

	return riders, nil
}

func (r *riderRepository) IncrementTotalRides(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"total_rides": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment total rides: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func (r *riderRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set rider rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func (r *riderRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_available": available, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set rider availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}
