package domain

import (
	"time"
)

// Profile represents a user profile. Exactly one profile exists per
// authenticated identity, keyed by the identity provider's stable user ID.
type Profile struct {
	ID           string    `json:"id"`
	ClerkID      string    `json:"clerk_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
