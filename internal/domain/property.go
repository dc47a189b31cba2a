package domain

import (
	"time"
)

// Property categories.
const (
	CategoryCabin     = "cabin"
	CategoryTent      = "tent"
	CategoryAirstream = "airstream"
	CategoryCottage   = "cottage"
	CategoryContainer = "container"
	CategoryCaravan   = "caravan"
	CategoryTiny      = "tiny"
	CategoryWarehouse = "warehouse"
	CategoryLodge     = "lodge"
)

// Property represents a rental listing. Ownership is fixed at creation.
type Property struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	Image       string    `json:"image"`
	Price       int       `json:"price"`
	Guests      int       `json:"guests"`
	Bedrooms    int       `json:"bedrooms"`
	Beds        int       `json:"beds"`
	Baths       int       `json:"baths"`
	Amenities   string    `json:"amenities"`
	ProfileID   string    `json:"profile_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PropertyCard is the projection rendered on listing grids: just enough to
// draw a card without fetching the full record.
type PropertyCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Country string `json:"country"`
	Image   string `json:"image"`
	Price   int    `json:"price"`
}

// PropertyDetail is a property with its owner's public profile embedded.
type PropertyDetail struct {
	Property
	Owner *Profile `json:"owner"`
}

// ValidCategories returns the set of valid property categories.
func ValidCategories() []string {
	return []string{
		CategoryCabin, CategoryTent, CategoryAirstream, CategoryCottage,
		CategoryContainer, CategoryCaravan, CategoryTiny, CategoryWarehouse,
		CategoryLodge,
	}
}

// IsValidCategory checks whether the given string is a valid property category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}
