package domain

import (
	"time"
)

// Review represents a property review submitted by a profile.
type Review struct {
	ID         string    `json:"id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ProfileID  string    `json:"profile_id"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewWithAuthor is a review with the author's display name and image
// embedded, as rendered under a property page.
type ReviewWithAuthor struct {
	Review
	AuthorName  string `json:"author_name"`
	AuthorImage string `json:"author_image"`
}

// ReviewWithProperty is a review with the reviewed property's name embedded,
// as rendered on the user's own reviews page.
type ReviewWithProperty struct {
	Review
	PropertyName  string `json:"property_name"`
	PropertyImage string `json:"property_image"`
}

// RatingSummary contains aggregate review statistics for a property. The
// rating is rounded to one decimal place; {0, 0} means no reviews yet.
type RatingSummary struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}
