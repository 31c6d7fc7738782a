package services

import (
	"context"
	"errors"
	"fmt"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	CreateRide(ctx context.Context, userID primitive.ObjectID, request *validators.RideCreateRequest) (*RideCreateResponse, error)
	GetAvailableRiders(ctx context.Context, request *validators.AvailableRidersRequest) ([]*models.Rider, error)
	GetRide(ctx context.Context, id primitive.ObjectID) (*RideDetail, error)
	UpdateStatus(ctx context.Context, rideID primitive.ObjectID, request *validators.RideStatusUpdateRequest) (*models.Ride, error)
	GetUserRides(ctx context.Context, userID primitive.ObjectID, filter string) ([]*models.RideWithRider, error)
	ListRides(ctx context.Context) ([]*models.Ride, error)
	GetVehicleCounts(ctx context.Context) ([]*models.VehicleRideCount, error)
}

type RideCreateResponse struct {
	Ride            *models.Ride    `json:"ride"`
	AvailableRiders []*models.Rider `json:"available_riders"`
}

// RideDetail is a ride with the display names of both parties filled in.
type RideDetail struct {
	*models.Ride
	CustomerName string                `json:"customer_name,omitempty"`
	Rider        *models.RideRiderInfo `json:"rider,omitempty"`
}

// rideTransitions is the lifecycle state machine. A status missing from the
// map, or a target missing from its set, is an invalid transition.
var rideTransitions = map[models.RideStatus]map[models.RideStatus]bool{
	models.RideStatusPending: {
		models.RideStatusAccepted:  true,
		models.RideStatusCancelled: true,
	},
	models.RideStatusAccepted: {
		models.RideStatusInProgress: true,
		models.RideStatusCancelled:  true,
	},
	models.RideStatusInProgress: {
		models.RideStatusCompleted: true,
		models.RideStatusCancelled: true,
	},
}

type rideService struct {
	rideRepo  interfaces.RideRepository
	riderRepo interfaces.RiderRepository
	userRepo  interfaces.UserRepository
	logger    *logger.Logger
}

func NewRideService(
	rideRepo interfaces.RideRepository,
	riderRepo interfaces.RiderRepository,
	userRepo interfaces.UserRepository,
	log *logger.Logger,
) RideService {
	return &rideService{
		rideRepo:  rideRepo,
		riderRepo: riderRepo,
		userRepo:  userRepo,
		logger:    log,
	}
}

func (s *rideService) CreateRide(ctx context.Context, userID primitive.ObjectID, request *validators.RideCreateRequest) (*RideCreateResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	ride := &models.Ride{
		UserID:          userID,
		PickupLocation:  request.PickupLocation,
		DropoffLocation: request.DropoffLocation,
		PickupDate:      request.PickupDate,
		PickupTime:      request.PickupTime,
		Passengers:      request.Passengers,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	// Candidates are informational; nothing is assigned here.
	riders, err := s.riderRepo.FindAvailable(ctx, ride.Passengers)
	if err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Warn("Failed to load candidate riders")
		riders = []*models.Rider{}
	}

	s.logger.WithRideID(ride.ID).WithUserID(userID).Info("Ride requested")

	return &RideCreateResponse{Ride: ride, AvailableRiders: riders}, nil
}

func (s *rideService) GetAvailableRiders(ctx context.Context, request *validators.AvailableRidersRequest) ([]*models.Rider, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	riders, err := s.riderRepo.FindAvailable(ctx, request.Passengers)
	if err != nil {
		return nil, fmt.Errorf("failed to find available riders: %w", err)
	}

	return riders, nil
}

func (s *rideService) GetRide(ctx context.Context, id primitive.ObjectID) (*RideDetail, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	detail := &RideDetail{Ride: ride}

	if user, err := s.userRepo.GetByID(ctx, ride.UserID); err == nil {
		detail.CustomerName = user.Name
	}

	if ride.RiderID != nil {
		if rider, err := s.riderRepo.GetByID(ctx, *ride.RiderID); err == nil {
			detail.Rider = &models.RideRiderInfo{
				Name:        rider.Name,
				VehicleType: rider.VehicleType,
				Rating:      rider.Rating,
			}
		}
	}

	return detail, nil
}

func (s *rideService) UpdateStatus(ctx context.Context, rideID primitive.ObjectID, request *validators.RideStatusUpdateRequest) (*models.Ride, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	to := models.RideStatus(request.Status)

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	from := ride.Status
	if !rideTransitions[from][to] {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	var riderID *primitive.ObjectID
	var rider *models.Rider

	if to == models.RideStatusAccepted {
		if request.RiderID == "" {
			return nil, &ValidationError{Field: "rider_id", Message: "required to accept a ride"}
		}
		id, err := primitive.ObjectIDFromHex(request.RiderID)
		if err != nil {
			return nil, &ValidationError{Field: "rider_id", Message: "must be a valid object id"}
		}
		rider, err = s.riderRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get rider: %w", err)
		}
		riderID = &rider.ID
	}

	modified, err := s.rideRepo.TransitionStatus(ctx, rideID, from, to, riderID, request.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to update ride status: %w", err)
	}
	if !modified {
		// A concurrent writer moved the ride first.
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	if to == models.RideStatusCompleted {
		s.applyCompletionEffects(ctx, ride)
	}

	ride.Status = to
	if riderID != nil {
		ride.RiderID = riderID
	}
	if request.Price != nil {
		ride.Price = request.Price
	}

	s.logger.WithRideID(rideID).WithFields(map[string]interface{}{
		"from": from,
		"to":   to,
	}).Info("Ride status updated")

	return ride, nil
}

// applyCompletionEffects bumps the rider's completed-ride total and the
// per-vehicle-type counter. It only runs after the guarded status write
// succeeded, so each completion counts exactly once.
func (s *rideService) applyCompletionEffects(ctx context.Context, ride *models.Ride) {
	if ride.RiderID == nil {
		return
	}

	rider, err := s.riderRepo.GetByID(ctx, *ride.RiderID)
	if err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("Failed to load rider for completion effects")
		return
	}

	if err := s.riderRepo.IncrementTotalRides(ctx, rider.ID); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("Failed to increment rider total rides")
	}

	if err := s.rideRepo.IncrementVehicleCount(ctx, rider.VehicleType); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Error("Failed to increment vehicle ride count")
	}
}

func (s *rideService) GetUserRides(ctx context.Context, userID primitive.ObjectID, filter string) ([]*models.RideWithRider, error) {
	var status models.RideStatus
	if filter != "" && filter != "all" {
		status = models.RideStatus(filter)
		if !status.IsValid() {
			return nil, &ValidationError{Field: "filter", Message: "unknown ride status " + filter}
		}
	}

	rides, err := s.rideRepo.GetByUserID(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get user rides: %w", err)
	}

	riderIDs := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, ride := range rides {
		if ride.RiderID != nil && !seen[*ride.RiderID] {
			seen[*ride.RiderID] = true
			riderIDs = append(riderIDs, *ride.RiderID)
		}
	}

	ridersByID := make(map[primitive.ObjectID]*models.Rider)
	if len(riderIDs) > 0 {
		riders, err := s.riderRepo.GetByIDs(ctx, riderIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get riders for rides: %w", err)
		}
		for _, rider := range riders {
			ridersByID[rider.ID] = rider
		}
	}

	result := make([]*models.RideWithRider, 0, len(rides))
	for _, ride := range rides {
		entry := &models.RideWithRider{Ride: *ride}
		if ride.RiderID != nil {
			if rider, ok := ridersByID[*ride.RiderID]; ok {
				entry.Rider = &models.RideRiderInfo{
					Name:        rider.Name,
					VehicleType: rider.VehicleType,
					Rating:      rider.Rating,
				}
			}
		}
		result = append(result, entry)
	}

	return result, nil
}

func (s *rideService) ListRides(ctx context.Context) ([]*models.Ride, error) {
	rides, err := s.rideRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}

	return rides, nil
}

func (s *rideService) GetVehicleCounts(ctx context.Context) ([]*models.VehicleRideCount, error) {
	counts, err := s.rideRepo.GetVehicleCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle ride counts: %w", err)
	}

	return counts, nil
}
