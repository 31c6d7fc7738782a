package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is a post-ride score left by the customer. It may only be created
// once the referenced ride is completed, and at most once per (ride, user).
type Rating struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID    primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Rating    int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// RatingReply is one entry in the thread under a rating, oldest first.
// Only its author may delete it.
type RatingReply struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RatingID  primitive.ObjectID `json:"rating_id" bson:"rating_id" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	ReplyText string             `json:"reply_text" bson:"reply_text" validate:"required"`
	UserName  string             `json:"user_name,omitempty" bson:"-"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// RiderRatingView is a rating joined with its rater's display fields and the
// ride's locations, as returned by the rider ratings listing.
type RiderRatingView struct {
	Rating          `bson:",inline"`
	UserName        string        `json:"user_name" bson:"user_name"`
	ProfilePicture  string        `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	PickupLocation  string        `json:"pickup_location" bson:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location" bson:"dropoff_location"`
	PickupTime      string        `json:"pickup_time" bson:"pickup_time"`
	Replies         []RatingReply `json:"replies" bson:"-"`
}
