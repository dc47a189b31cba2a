package domain

import (
	"time"
)

// Favorite marks a property as saved by a profile. A favorite is never
// updated in place: it is created and deleted, and the database enforces at
// most one row per (profile, property) pair.
type Favorite struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
