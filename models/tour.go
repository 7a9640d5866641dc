package models

import (
	"strings"
	"time"
)

// Tour is a bookable product. Schedules reference it by ID.
type Tour struct {
	ID            string    `bson:"id" json:"id"`
	CityID        string    `bson:"cityId,omitempty" json:"cityId,omitempty"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64   `bson:"price" json:"price"`               // base price per person
	DurationDays  int       `bson:"durationDays" json:"durationDays"` // length of one departure
	MaxGroupSize  int       `bson:"maxGroupSize" json:"maxGroupSize"` // capacity template for new schedules
	AverageRating float64   `bson:"averageRating" json:"averageRating"`
	ReviewCount   int       `bson:"reviewCount" json:"reviewCount"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (t *Tour) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "missing required field")
	}
	if t.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	if t.DurationDays < 1 {
		return NewValidationError("durationDays", "must be at least 1")
	}
	if t.MaxGroupSize < 0 {
		return NewValidationError("maxGroupSize", "must not be negative")
	}
	return nil
}

// City is a destination that tours are grouped under.
type City struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Country       string    `bson:"country,omitempty" json:"country,omitempty"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	AverageRating float64   `bson:"averageRating" json:"averageRating"`
	ReviewCount   int       `bson:"reviewCount" json:"reviewCount"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (c *City) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "missing required field")
	}
	return nil
}
