package validators

type RatingCreateRequest struct {
	RideID  string `json:"ride_id" validate:"required,len=24"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

type ReplyCreateRequest struct {
	RatingID  string `json:"rating_id" validate:"required,len=24"`
	ReplyText string `json:"reply_text" validate:"required,min=1,max=1000"`
}
