package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/cache"
	"ridelink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const riderStatsCacheTTL = 15 * time.Minute

type RiderService interface {
	ListRiders(ctx context.Context) ([]*models.Rider, error)
	GetRider(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
	GetRiderStats(ctx context.Context, id primitive.ObjectID) (*models.RiderStats, error)
	CreateRider(ctx context.Context, request *validators.RiderCreateRequest) (*models.Rider, error)
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
}

type riderService struct {
	riderRepo  interfaces.RiderRepository
	rideRepo   interfaces.RideRepository
	ratingRepo interfaces.RatingRepository
	cache      *cache.RedisCache
	logger     *logger.Logger
}

func NewRiderService(
	riderRepo interfaces.RiderRepository,
	rideRepo interfaces.RideRepository,
	ratingRepo interfaces.RatingRepository,
	redisCache *cache.RedisCache,
	log *logger.Logger,
) RiderService {
	return &riderService{
		riderRepo:  riderRepo,
		rideRepo:   rideRepo,
		ratingRepo: ratingRepo,
		cache:      redisCache,
		logger:     log,
	}
}

func (s *riderService) ListRiders(ctx context.Context) ([]*models.Rider, error) {
	riders, err := s.riderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}

	return riders, nil
}

func (s *riderService) GetRider(ctx context.Context, id primitive.ObjectID) (*models.Rider, error) {
	rider, err := s.riderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}

	return rider, nil
}

func riderStatsCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("rider_stats:%s", id.Hex())
}

func (s *riderService) GetRiderStats(ctx context.Context, id primitive.ObjectID) (*models.RiderStats, error) {
	if s.cache != nil {
		var stats models.RiderStats
		if err := s.cache.Get(ctx, riderStatsCacheKey(id), &stats); err == nil {
			return &stats, nil
		}
	}

	if _, err := s.riderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}

	completed, err := s.rideRepo.CountCompletedByRider(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed rides: %w", err)
	}

	average, total, err := s.ratingRepo.AverageForRider(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rider rating: %w", err)
	}

	stats := &models.RiderStats{
		CompletedRides: completed,
		TotalRatings:   total,
		AverageRating:  average,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, riderStatsCacheKey(id), stats, riderStatsCacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache rider stats")
		}
	}

	return stats, nil
}

func (s *riderService) CreateRider(ctx context.Context, request *validators.RiderCreateRequest) (*models.Rider, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	rider := &models.Rider{
		Name:            request.Name,
		Phone:           request.Phone,
		Email:           request.Email,
		VehicleType:     models.VehicleType(request.VehicleType),
		LicenseNumber:   request.LicenseNumber,
		ExperienceYears: request.ExperienceYears,
		Capacity:        request.Capacity,
		IsAvailable:     true,
	}

	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, fmt.Errorf("failed to create rider: %w", err)
	}

	s.logger.WithField("rider_id", rider.ID.Hex()).Info("Rider registered")

	return rider, nil
}

func (s *riderService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	err := s.riderRepo.SetAvailability(ctx, id, available)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set rider availability: %w", err)
	}

	return nil
}
