package validators

type RideCreateRequest struct {
	PickupLocation  string `json:"pickup_location" validate:"required,min=1,max=255"`
	DropoffLocation string `json:"dropoff_location" validate:"required,min=1,max=255"`
	PickupDate      string `json:"pickup_date" validate:"required"`
	PickupTime      string `json:"pickup_time" validate:"required"`
	Passengers      int    `json:"passengers" validate:"required,min=1,max=4"`
}

type RideStatusUpdateRequest struct {
	Status  string   `json:"status" validate:"required,ride_status"`
	RiderID string   `json:"rider_id" validate:"omitempty,len=24"`
	Price   *float64 `json:"price" validate:"omitempty,min=0"`
}

// AvailableRidersRequest has no upper bound on passengers: a party too large
// for every vehicle gets an empty result, not an error.
type AvailableRidersRequest struct {
	PickupLocation string `json:"pickup_location" validate:"required,min=1,max=255"`
	Passengers     int    `json:"passengers" validate:"required,min=1"`
}
