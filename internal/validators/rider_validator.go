package validators

type RiderCreateRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Email           string `json:"email" validate:"omitempty,email"`
	VehicleType     string `json:"vehicle_type" validate:"required,vehicle_type"`
	LicenseNumber   string `json:"license_number" validate:"omitempty,max=50"`
	ExperienceYears int    `json:"experience_years" validate:"omitempty,min=0,max=60"`
	Capacity        int    `json:"capacity" validate:"omitempty,min=1,max=8"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}
