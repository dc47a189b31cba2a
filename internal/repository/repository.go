// Package repository defines the persistence interfaces consumed by the
// service layer. The postgres subpackage provides the production
// implementations.
package repository

import (
	"context"

	"github.com/qm1997qm/home-away-clone/internal/domain"
)

// PropertyFilter narrows property listings. Zero values mean no filtering.
type PropertyFilter struct {
	// Search matches name or tagline, case-insensitively.
	Search string
	// Category restricts to a single category.
	Category string
}

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	UpdateImage(ctx context.Context, id, imageURL string) error
}

// PropertyRepository persists rental listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	GetDetail(ctx context.Context, id string) (*domain.PropertyDetail, error)
	List(ctx context.Context, filter PropertyFilter, page, perPage int) ([]*domain.PropertyCard, int, error)
	ListByOwner(ctx context.Context, profileID string) ([]*domain.PropertyCard, error)
}

// FavoriteRepository persists favorites. Create maps a unique-index
// violation to ErrAlreadyExists; Delete maps zero affected rows to
// ErrNotFound. The service layer decides what those mean.
type FavoriteRepository interface {
	Create(ctx context.Context, profileID, propertyID string) (*domain.Favorite, error)
	Delete(ctx context.Context, id, profileID string) error
	FindID(ctx context.Context, profileID, propertyID string) (string, error)
	ListProperties(ctx context.Context, profileID string, page, perPage int) ([]*domain.PropertyCard, int, error)
}

// ReviewRepository persists property reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*domain.ReviewWithAuthor, error)
	ListByAuthor(ctx context.Context, profileID string) ([]*domain.ReviewWithProperty, error)
	Delete(ctx context.Context, id, profileID string) error
	GetSummary(ctx context.Context, propertyID string) (*domain.RatingSummary, error)
	ExistsByAuthorAndProperty(ctx context.Context, profileID, propertyID string) (bool, error)
}
