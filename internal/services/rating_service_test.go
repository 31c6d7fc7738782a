package services

import (
	"context"
	"errors"
	"testing"

	"ridelink/internal/models"
	"ridelink/internal/validators"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRatingServiceForTest(t *testing.T, ratingRepo *fakeRatingRepo, rideRepo *fakeRideRepo, riderRepo *fakeRiderRepo) RatingService {
	t.Helper()
	return NewRatingService(ratingRepo, rideRepo, riderRepo, nil, testLogger(t))
}

func completedRide(rideRepo *fakeRideRepo, riderID *primitive.ObjectID) *models.Ride {
	return rideRepo.add(&models.Ride{
		UserID:  primitive.NewObjectID(),
		Status:  models.RideStatusCompleted,
		RiderID: riderID,
	})
}

func TestRateUnknownRide(t *testing.T) {
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), newFakeRideRepo(), newFakeRiderRepo())

	_, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), &validators.RatingCreateRequest{
		RideID: primitive.NewObjectID().Hex(),
		Rating: 5,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRateNonCompletedRide(t *testing.T) {
	for _, status := range []models.RideStatus{
		models.RideStatusPending,
		models.RideStatusAccepted,
		models.RideStatusInProgress,
		models.RideStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			rideRepo := newFakeRideRepo()
			ride := rideRepo.add(&models.Ride{UserID: primitive.NewObjectID(), Status: status})
			svc := newRatingServiceForTest(t, newFakeRatingRepo(), rideRepo, newFakeRiderRepo())

			_, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), &validators.RatingCreateRequest{
				RideID: ride.ID.Hex(),
				Rating: 4,
			})
			if !errors.Is(err, ErrRideNotCompleted) {
				t.Errorf("got %v, want ErrRideNotCompleted", err)
			}
		})
	}
}

func TestDuplicateRatingRejected(t *testing.T) {
	rideRepo := newFakeRideRepo()
	ride := completedRide(rideRepo, nil)
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), rideRepo, newFakeRiderRepo())

	userID := primitive.NewObjectID()
	request := &validators.RatingCreateRequest{RideID: ride.ID.Hex(), Rating: 5}

	if _, err := svc.CreateRating(context.Background(), userID, request); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}

	_, err := svc.CreateRating(context.Background(), userID, request)
	if !errors.Is(err, ErrAlreadyRated) {
		t.Errorf("got %v, want ErrAlreadyRated", err)
	}
}

func TestSecondUserMayRateSameRide(t *testing.T) {
	rideRepo := newFakeRideRepo()
	ride := completedRide(rideRepo, nil)
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), rideRepo, newFakeRiderRepo())

	request := &validators.RatingCreateRequest{RideID: ride.ID.Hex(), Rating: 3}

	if _, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), request); err != nil {
		t.Fatalf("first user rating failed: %v", err)
	}
	if _, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), request); err != nil {
		t.Errorf("second user rating failed: %v", err)
	}
}

func TestRatingBoundsEnforced(t *testing.T) {
	rideRepo := newFakeRideRepo()
	ride := completedRide(rideRepo, nil)
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), rideRepo, newFakeRiderRepo())

	for _, score := range []int{0, 6, -1} {
		_, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), &validators.RatingCreateRequest{
			RideID: ride.ID.Hex(),
			Rating: score,
		})
		if err == nil {
			t.Errorf("rating %d accepted, want validation error", score)
		}
	}
}

func TestRatingRecomputesRiderAggregate(t *testing.T) {
	ratingRepo := newFakeRatingRepo()
	ratingRepo.riderAverage = 4.3
	ratingRepo.riderTotal = 7

	rideRepo := newFakeRideRepo()
	riderRepo := newFakeRiderRepo()
	rider := riderRepo.add(&models.Rider{Name: "Carla", VehicleType: models.VehicleTypeCar, Rating: 3.0})
	riderID := rider.ID
	ride := completedRide(rideRepo, &riderID)

	svc := newRatingServiceForTest(t, ratingRepo, rideRepo, riderRepo)

	_, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), &validators.RatingCreateRequest{
		RideID: ride.ID.Hex(),
		Rating: 5,
	})
	if err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}

	if len(riderRepo.ratingsRecorded) != 1 {
		t.Fatalf("rider rating writes = %d, want 1", len(riderRepo.ratingsRecorded))
	}
	if riderRepo.ratingsRecorded[0] != 4.3 {
		t.Errorf("stored aggregate = %v, want 4.3", riderRepo.ratingsRecorded[0])
	}
	if rider.Rating != 4.3 {
		t.Errorf("rider.Rating = %v, want 4.3", rider.Rating)
	}
}

func TestRatingUnmatchedRideSkipsRecompute(t *testing.T) {
	ratingRepo := newFakeRatingRepo()
	rideRepo := newFakeRideRepo()
	riderRepo := newFakeRiderRepo()
	ride := completedRide(rideRepo, nil)

	svc := newRatingServiceForTest(t, ratingRepo, rideRepo, riderRepo)

	if _, err := svc.CreateRating(context.Background(), primitive.NewObjectID(), &validators.RatingCreateRequest{
		RideID: ride.ID.Hex(),
		Rating: 5,
	}); err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}

	if len(riderRepo.ratingsRecorded) != 0 {
		t.Errorf("rider rating writes = %d, want 0 for an unmatched ride", len(riderRepo.ratingsRecorded))
	}
}

func TestGetRideRatingEmpty(t *testing.T) {
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), newFakeRideRepo(), newFakeRiderRepo())

	rating, err := svc.GetRideRating(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetRideRating failed: %v", err)
	}
	if rating.AverageRating != 0 || rating.TotalRatings != 0 {
		t.Errorf("empty ride rating = %+v, want zeros", rating)
	}
}

// seedRating stores a rating directly in the fake and returns it.
func seedRating(t *testing.T, ratingRepo *fakeRatingRepo) *models.Rating {
	t.Helper()
	rating := &models.Rating{
		RideID: primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Rating: 4,
	}
	if err := ratingRepo.Create(context.Background(), rating); err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}
	return rating
}

func TestReplyToUnknownRating(t *testing.T) {
	svc := newRatingServiceForTest(t, newFakeRatingRepo(), newFakeRideRepo(), newFakeRiderRepo())

	_, err := svc.CreateReply(context.Background(), primitive.NewObjectID(), &validators.ReplyCreateRequest{
		RatingID:  primitive.NewObjectID().Hex(),
		ReplyText: "orphan",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReplyLifecycle(t *testing.T) {
	ratingRepo := newFakeRatingRepo()
	svc := newRatingServiceForTest(t, ratingRepo, newFakeRideRepo(), newFakeRiderRepo())
	rating := seedRating(t, ratingRepo)

	author := primitive.NewObjectID()
	reply, err := svc.CreateReply(context.Background(), author, &validators.ReplyCreateRequest{
		RatingID:  rating.ID.Hex(),
		ReplyText: "Thanks for the feedback",
	})
	if err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}

	// A stranger cannot delete it.
	if err := svc.DeleteReply(context.Background(), primitive.NewObjectID(), reply.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete: got %v, want ErrForbidden", err)
	}

	// The author can.
	if err := svc.DeleteReply(context.Background(), author, reply.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}

	if err := svc.DeleteReply(context.Background(), author, reply.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}
