package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. Safe to run on
// every startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"riders": {
			{
				// Backs the quality-ranking listing order.
				Keys: bson.D{{Key: "rating", Value: -1}, {Key: "total_rides", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "is_available", Value: 1}, {Key: "capacity", Value: 1}},
			},
		},
		"rides": {
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "rider_id", Value: 1}, {Key: "status", Value: 1}},
			},
		},
		"ratings": {
			{
				// One rating per (ride, user).
				Keys:    bson.D{{Key: "ride_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"rating_replies": {
			{
				Keys: bson.D{{Key: "rating_id", Value: 1}, {Key: "created_at", Value: 1}},
			},
		},
	}

	for collection, models := range indexes {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
