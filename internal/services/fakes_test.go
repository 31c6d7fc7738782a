package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"
	"ridelink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: "error", Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

// In-memory fakes for the repository interfaces. They implement just enough
// behavior for the service tests; anything state-dependent is settable from
// the test.

type fakeUserRepo struct {
	users       map[primitive.ObjectID]*models.User
	lastUpdates map[string]interface{}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return interfaces.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := f.users[id]; !ok {
		return interfaces.ErrNotFound
	}
	f.lastUpdates = updates
	return nil
}

type fakeRiderRepo struct {
	riders          map[primitive.ObjectID]*models.Rider
	incrementCalls  int
	ratingsRecorded []float64
}

func newFakeRiderRepo() *fakeRiderRepo {
	return &fakeRiderRepo{riders: make(map[primitive.ObjectID]*models.Rider)}
}

func (f *fakeRiderRepo) add(rider *models.Rider) *models.Rider {
	if rider.ID.IsZero() {
		rider.ID = primitive.NewObjectID()
	}
	f.riders[rider.ID] = rider
	return rider
}

func (f *fakeRiderRepo) Create(_ context.Context, rider *models.Rider) error {
	if rider.Capacity <= 0 {
		rider.Capacity = rider.VehicleType.DefaultCapacity()
	}
	f.add(rider)
	return nil
}

func (f *fakeRiderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Rider, error) {
	rider, ok := f.riders[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return rider, nil
}

func (f *fakeRiderRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Rider, error) {
	result := []*models.Rider{}
	for _, id := range ids {
		if rider, ok := f.riders[id]; ok {
			result = append(result, rider)
		}
	}
	return result, nil
}

func (f *fakeRiderRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]interface{}) error {
	if _, ok := f.riders[id]; !ok {
		return interfaces.ErrNotFound
	}
	return nil
}

func sortByReputation(riders []*models.Rider) {
	sort.SliceStable(riders, func(i, j int) bool {
		if riders[i].Rating != riders[j].Rating {
			return riders[i].Rating > riders[j].Rating
		}
		return riders[i].TotalRides > riders[j].TotalRides
	})
}

func (f *fakeRiderRepo) List(_ context.Context) ([]*models.Rider, error) {
	result := []*models.Rider{}
	for _, rider := range f.riders {
		result = append(result, rider)
	}
	sortByReputation(result)
	return result, nil
}

func (f *fakeRiderRepo) FindAvailable(_ context.Context, passengers int) ([]*models.Rider, error) {
	result := []*models.Rider{}
	for _, rider := range f.riders {
		if rider.IsAvailable && rider.Capacity >= passengers {
			result = append(result, rider)
		}
	}
	sortByReputation(result)
	return result, nil
}

func (f *fakeRiderRepo) IncrementTotalRides(_ context.Context, id primitive.ObjectID) error {
	rider, ok := f.riders[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	rider.TotalRides++
	f.incrementCalls++
	return nil
}

func (f *fakeRiderRepo) SetRating(_ context.Context, id primitive.ObjectID, rating float64) error {
	rider, ok := f.riders[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	rider.Rating = rating
	f.ratingsRecorded = append(f.ratingsRecorded, rating)
	return nil
}

func (f *fakeRiderRepo) SetAvailability(_ context.Context, id primitive.ObjectID, available bool) error {
	rider, ok := f.riders[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	rider.IsAvailable = available
	return nil
}

type fakeRideRepo struct {
	rides         map[primitive.ObjectID]*models.Ride
	vehicleCounts map[models.VehicleType]int64
	// forceStale makes every transition report no modification, as if a
	// concurrent writer always won the race.
	forceStale bool
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{
		rides:         make(map[primitive.ObjectID]*models.Ride),
		vehicleCounts: make(map[models.VehicleType]int64),
	}
}

func (f *fakeRideRepo) add(ride *models.Ride) *models.Ride {
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	f.rides[ride.ID] = ride
	return ride
}

func (f *fakeRideRepo) Create(_ context.Context, ride *models.Ride) error {
	ride.Status = models.RideStatusPending
	ride.RiderID = nil
	ride.Price = nil
	ride.CreatedAt = time.Now()
	f.add(ride)
	return nil
}

func (f *fakeRideRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Ride, error) {
	ride, ok := f.rides[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *ride
	return &copied, nil
}

func (f *fakeRideRepo) List(_ context.Context) ([]*models.Ride, error) {
	result := []*models.Ride{}
	for _, ride := range f.rides {
		result = append(result, ride)
	}
	return result, nil
}

func (f *fakeRideRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, status models.RideStatus) ([]*models.Ride, error) {
	result := []*models.Ride{}
	for _, ride := range f.rides {
		if ride.UserID != userID {
			continue
		}
		if status != "" && ride.Status != status {
			continue
		}
		result = append(result, ride)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeRideRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from, to models.RideStatus, riderID *primitive.ObjectID, price *float64) (bool, error) {
	ride, ok := f.rides[id]
	if !ok || ride.Status != from || f.forceStale {
		return false, nil
	}
	ride.Status = to
	if riderID != nil {
		ride.RiderID = riderID
	}
	if price != nil {
		ride.Price = price
	}
	return true, nil
}

func (f *fakeRideRepo) CountCompletedByRider(_ context.Context, riderID primitive.ObjectID) (int64, error) {
	var count int64
	for _, ride := range f.rides {
		if ride.RiderID != nil && *ride.RiderID == riderID && ride.Status == models.RideStatusCompleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeRideRepo) IncrementVehicleCount(_ context.Context, vehicleType models.VehicleType) error {
	f.vehicleCounts[vehicleType]++
	return nil
}

func (f *fakeRideRepo) GetVehicleCounts(_ context.Context) ([]*models.VehicleRideCount, error) {
	result := []*models.VehicleRideCount{}
	for vt, count := range f.vehicleCounts {
		result = append(result, &models.VehicleRideCount{VehicleType: vt, CompletedRides: count})
	}
	return result, nil
}

type ratingKey struct {
	rideID primitive.ObjectID
	userID primitive.ObjectID
}

type fakeRatingRepo struct {
	ratings map[ratingKey]*models.Rating
	byID    map[primitive.ObjectID]*models.Rating
	replies map[primitive.ObjectID]*models.RatingReply

	// Preset aggregate returned by AverageForRider.
	riderAverage float64
	riderTotal   int64
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		ratings: make(map[ratingKey]*models.Rating),
		byID:    make(map[primitive.ObjectID]*models.Rating),
		replies: make(map[primitive.ObjectID]*models.RatingReply),
	}
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *models.Rating) error {
	key := ratingKey{rideID: rating.RideID, userID: rating.UserID}
	if _, exists := f.ratings[key]; exists {
		return interfaces.ErrDuplicate
	}
	if rating.ID.IsZero() {
		rating.ID = primitive.NewObjectID()
	}
	f.ratings[key] = rating
	f.byID[rating.ID] = rating
	return nil
}

func (f *fakeRatingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Rating, error) {
	rating, ok := f.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return rating, nil
}

func (f *fakeRatingRepo) GetRideRating(_ context.Context, rideID primitive.ObjectID) (*models.RideRating, error) {
	var sum, count int64
	for key, rating := range f.ratings {
		if key.rideID == rideID {
			sum += int64(rating.Rating)
			count++
		}
	}
	result := &models.RideRating{}
	if count > 0 {
		result.AverageRating = float64(sum) / float64(count)
		result.TotalRatings = count
	}
	return result, nil
}

func (f *fakeRatingRepo) GetByRiderID(_ context.Context, _ primitive.ObjectID) ([]*models.RiderRatingView, error) {
	return []*models.RiderRatingView{}, nil
}

func (f *fakeRatingRepo) AverageForRider(_ context.Context, _ primitive.ObjectID) (float64, int64, error) {
	return f.riderAverage, f.riderTotal, nil
}

func (f *fakeRatingRepo) CreateReply(_ context.Context, reply *models.RatingReply) error {
	if reply.ID.IsZero() {
		reply.ID = primitive.NewObjectID()
	}
	f.replies[reply.ID] = reply
	return nil
}

func (f *fakeRatingRepo) GetRepliesForRating(_ context.Context, ratingID primitive.ObjectID) ([]models.RatingReply, error) {
	result := []models.RatingReply{}
	for _, reply := range f.replies {
		if reply.RatingID == ratingID {
			result = append(result, *reply)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeRatingRepo) GetReplyByID(_ context.Context, id primitive.ObjectID) (*models.RatingReply, error) {
	reply, ok := f.replies[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return reply, nil
}

func (f *fakeRatingRepo) DeleteReply(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.replies[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(f.replies, id)
	return nil
}

type fakeLimiter struct {
	allowed    bool
	retryAfter time.Duration
	recorded   []string
	resets     []string
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{allowed: true}
}

func (f *fakeLimiter) Allowed(_ context.Context, _ string) (bool, time.Duration, error) {
	return f.allowed, f.retryAfter, nil
}

func (f *fakeLimiter) Record(_ context.Context, identity string) error {
	f.recorded = append(f.recorded, identity)
	return nil
}

func (f *fakeLimiter) Reset(_ context.Context, identity string) error {
	f.resets = append(f.resets, identity)
	return nil
}
