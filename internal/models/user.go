package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeRider    UserType = "rider"
)

type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email               string             `json:"email" bson:"email" validate:"required,email"`
	Password            string             `json:"-" bson:"password"`
	Phone               string             `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType            UserType           `json:"user_type" bson:"user_type" default:"customer"`
	ProfilePicture      string             `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	OneSignalToken      string             `json:"-" bson:"onesignal_token,omitempty"`
	NotificationEnabled bool               `json:"notification_enabled" bson:"notification_enabled" default:"true"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}
