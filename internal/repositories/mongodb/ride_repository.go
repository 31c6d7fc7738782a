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

type rideRepository struct {
	collection    *mongo.Collection
	vehicleCounts *mongo.Collection
}

func NewRideRepository(db *mongo.Database) interfaces.RideRepository {
	return &rideRepository{
		collection:    db.Collection("rides"),
		vehicleCounts: db.Collection("vehicle_ride_counts"),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.Status = models.RideStatusPending
	ride.RiderID = nil
	ride.Price = nil
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	return &ride, nil
}

func (r *rideRepository) List(ctx context.Context) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	defer cursor.Close(ctx)

	rides := []*models.Ride{}
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, fmt.Errorf("failed to decode rides: %w", err)
	}

	return rides, nil
}

func (r *rideRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, status models.RideStatus) ([]*models.Ride, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get rides by user: %w", err)
	}
	defer cursor.Close(ctx)

	rides := []*models.Ride{}
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, fmt.Errorf("failed to decode rides: %w", err)
	}

	return rides, nil
}

// TransitionStatus applies a guarded status change. The filter pins the
// current status, so if two writers race only one modifies the document.
func (r *rideRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.RideStatus, riderID *primitive.ObjectID, price *float64) (bool, error) {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if riderID != nil {
		set["rider_id"] = *riderID
	}
	if price != nil {
		set["price"] = *price
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition ride status: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *rideRepository) CountCompletedByRider(ctx context.Context, riderID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"rider_id": riderID,
		"status":   models.RideStatusCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count completed rides: %w", err)
	}

	return count, nil
}

func (r *rideRepository) IncrementVehicleCount(ctx context.Context, vehicleType models.VehicleType) error {
	opts := options.Update().SetUpsert(true)

	_, err := r.vehicleCounts.UpdateOne(
		ctx,
		bson.M{"vehicle_type": vehicleType},
		bson.M{"$inc": bson.M{"completed_rides": 1}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to increment vehicle ride count: %w", err)
	}

	return nil
}

func (r *rideRepository) GetVehicleCounts(ctx context.Context) ([]*models.VehicleRideCount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "vehicle_type", Value: 1}})

	cursor, err := r.vehicleCounts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle ride counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := []*models.VehicleRideCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle ride counts: %w", err)
	}

	return counts, nil
}
