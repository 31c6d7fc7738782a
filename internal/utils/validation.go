package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("vehicle_type", validateVehicleType)
	validate.RegisterValidation("ride_status", validateRideStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateVehicleType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Bike", "Car", "Scooter":
		return true
	}
	return false
}

func validateRideStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "accepted", "in_progress", "completed", "cancelled":
		return true
	}
	return false
}
