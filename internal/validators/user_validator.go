package validators

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	UserType string `json:"user_type" validate:"omitempty,oneof=customer rider"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type NotificationTokenRequest struct {
	OneSignalToken string `json:"onesignal_token" validate:"required"`
}

type NotificationToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
