package models

import "time"

type ReviewTarget string

const (
	ReviewTargetTour ReviewTarget = "tour"
	ReviewTargetCity ReviewTarget = "city"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string       `bson:"id" json:"id"`
	UserID     string       `bson:"userId" json:"userId"`
	TargetType ReviewTarget `bson:"targetType" json:"targetType"`
	TargetID   string       `bson:"targetId" json:"targetId"`
	Rating     int          `bson:"rating" json:"rating"`
	Comment    string       `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// RatingAggregate is the denormalized pair written back onto a tour or city.
type RatingAggregate struct {
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
	ReviewCount   int     `bson:"reviewCount" json:"reviewCount"`
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return NewValidationError("rating", "must be between 1 and 5")
	}
	return nil
}

func (r *Review) Validate() error {
	switch r.TargetType {
	case ReviewTargetTour, ReviewTargetCity:
	case "":
		return NewValidationError("targetType", "missing required field")
	default:
		return NewValidationError("targetType", "must be one of tour, city")
	}
	if r.TargetID == "" {
		return NewValidationError("targetId", "missing required field")
	}
	return ValidateRating(r.Rating)
}
