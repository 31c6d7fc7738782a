package services

import (
	"context"
	"errors"
	"fmt"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/cache"
	"ridelink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingService interface {
	CreateRating(ctx context.Context, userID primitive.ObjectID, request *validators.RatingCreateRequest) (*models.Rating, error)
	GetRideRating(ctx context.Context, rideID primitive.ObjectID) (*models.RideRating, error)
	GetRiderRatings(ctx context.Context, riderID primitive.ObjectID) ([]*models.RiderRatingView, error)
	CreateReply(ctx context.Context, userID primitive.ObjectID, request *validators.ReplyCreateRequest) (*models.RatingReply, error)
	DeleteReply(ctx context.Context, userID, replyID primitive.ObjectID) error
}

type ratingService struct {
	ratingRepo interfaces.RatingRepository
	rideRepo   interfaces.RideRepository
	riderRepo  interfaces.RiderRepository
	cache      *cache.RedisCache
	logger     *logger.Logger
}

func NewRatingService(
	ratingRepo interfaces.RatingRepository,
	rideRepo interfaces.RideRepository,
	riderRepo interfaces.RiderRepository,
	redisCache *cache.RedisCache,
	log *logger.Logger,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		rideRepo:   rideRepo,
		riderRepo:  riderRepo,
		cache:      redisCache,
		logger:     log,
	}
}

func (s *ratingService) CreateRating(ctx context.Context, userID primitive.ObjectID, request *validators.RatingCreateRequest) (*models.Rating, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	rideID, err := primitive.ObjectIDFromHex(request.RideID)
	if err != nil {
		return nil, &ValidationError{Field: "ride_id", Message: "must be a valid object id"}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if ride.Status != models.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	rating := &models.Rating{
		RideID:  rideID,
		UserID:  userID,
		Rating:  request.Rating,
		Comment: request.Comment,
	}

	// The unique (ride_id, user_id) index is the real guard; two concurrent
	// submissions both pass the read check and the index rejects one.
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrAlreadyRated
		}
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	if ride.RiderID != nil {
		s.recomputeRiderRating(ctx, *ride.RiderID)
	}

	s.logger.WithRideID(rideID).WithUserID(userID).WithField("rating", request.Rating).Info("Rating submitted")

	return rating, nil
}

// recomputeRiderRating rereads the full rating set for the rider in one
// aggregation and stores the result, so concurrent writers converge on the
// true mean regardless of ordering.
func (s *ratingService) recomputeRiderRating(ctx context.Context, riderID primitive.ObjectID) {
	average, _, err := s.ratingRepo.AverageForRider(ctx, riderID)
	if err != nil {
		s.logger.WithError(err).WithField("rider_id", riderID.Hex()).Error("Failed to recompute rider rating")
		return
	}

	if err := s.riderRepo.SetRating(ctx, riderID, average); err != nil {
		s.logger.WithError(err).WithField("rider_id", riderID.Hex()).Error("Failed to store rider rating")
		return
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, riderStatsCacheKey(riderID)); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate rider stats cache")
		}
	}
}

func (s *ratingService) GetRideRating(ctx context.Context, rideID primitive.ObjectID) (*models.RideRating, error) {
	rating, err := s.ratingRepo.GetRideRating(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ride rating: %w", err)
	}

	return rating, nil
}

func (s *ratingService) GetRiderRatings(ctx context.Context, riderID primitive.ObjectID) ([]*models.RiderRatingView, error) {
	views, err := s.ratingRepo.GetByRiderID(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rider ratings: %w", err)
	}

	for _, view := range views {
		replies, err := s.ratingRepo.GetRepliesForRating(ctx, view.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get rating replies: %w", err)
		}
		view.Replies = replies
	}

	return views, nil
}

func (s *ratingService) CreateReply(ctx context.Context, userID primitive.ObjectID, request *validators.ReplyCreateRequest) (*models.RatingReply, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	ratingID, err := primitive.ObjectIDFromHex(request.RatingID)
	if err != nil {
		return nil, &ValidationError{Field: "rating_id", Message: "must be a valid object id"}
	}

	if _, err := s.ratingRepo.GetByID(ctx, ratingID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	reply := &models.RatingReply{
		RatingID:  ratingID,
		UserID:    userID,
		ReplyText: request.ReplyText,
	}

	if err := s.ratingRepo.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	return reply, nil
}

func (s *ratingService) DeleteReply(ctx context.Context, userID, replyID primitive.ObjectID) error {
	reply, err := s.ratingRepo.GetReplyByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get reply: %w", err)
	}

	if reply.UserID != userID {
		return ErrForbidden
	}

	if err := s.ratingRepo.DeleteReply(ctx, replyID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete reply: %w", err)
	}

	return nil
}
