package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	"github.com/qm1997qm/home-away-clone/internal/storage"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/slug"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// PropertyEvents publishes property lifecycle events.
type PropertyEvents interface {
	PublishPropertyCreated(ctx context.Context, property *domain.Property) error
}

// ImageUpload holds an image file submitted with a form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// CreatePropertyInput holds the parameters for creating a listing. The
// description is constrained by word count, not characters.
type CreatePropertyInput struct {
	ProfileID   string `validate:"required"`
	Name        string `validate:"required,min=2,max=100"`
	Tagline     string `validate:"required,min=2,max=100"`
	Category    string `validate:"required"`
	Description string `validate:"required,minwords=10,maxwords=1000"`
	Country     string `validate:"required"`
	Price       int    `validate:"min=0"`
	Guests      int    `validate:"min=0"`
	Bedrooms    int    `validate:"min=0"`
	Beds        int    `validate:"min=0"`
	Baths       int    `validate:"min=0"`
	Amenities   string
	Image       *ImageUpload `validate:"required"`
}

// PropertyService implements the business logic for rental listings.
type PropertyService struct {
	repo       repository.PropertyRepository
	store      storage.Storage
	events     PropertyEvents
	revalidate Revalidator
	logger     *slog.Logger
}

// NewPropertyService creates a new property service.
func NewPropertyService(repo repository.PropertyRepository, store storage.Storage, events PropertyEvents, revalidate Revalidator, logger *slog.Logger) *PropertyService {
	return &PropertyService{
		repo:       repo,
		store:      store,
		events:     events,
		revalidate: revalidate,
		logger:     logger,
	}
}

// validateImage enforces the upload constraints shared by listing and
// profile images.
func validateImage(img *ImageUpload) error {
	if img.Size > storage.MaxImageSize {
		return apperrors.InvalidInput("image must be smaller than 1 MB")
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return apperrors.InvalidInput("file must be an image")
	}
	return nil
}

func uploadImage(ctx context.Context, store storage.Storage, prefix string, img *ImageUpload) (string, error) {
	ext := path.Ext(img.Filename)
	name := slug.Generate(strings.TrimSuffix(img.Filename, ext))
	if name == "" {
		name = "image"
	}
	key := fmt.Sprintf("%s/%s-%s%s", prefix, name, uuid.New().String(), ext)
	result, err := store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: img.ContentType,
		Size:        img.Size,
		Data:        img.Data,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return result.URL, nil
}

// Create validates the listing, uploads its image, and persists it.
// Ownership is fixed to the creating profile and never changes.
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*domain.Property, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput("unknown category: " + input.Category)
	}
	if err := validateImage(input.Image); err != nil {
		return nil, err
	}

	imageURL, err := uploadImage(ctx, s.store, "properties", input.Image)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Create(ctx, &domain.Property{
		Name:        input.Name,
		Tagline:     input.Tagline,
		Category:    input.Category,
		Description: input.Description,
		Country:     input.Country,
		Image:       imageURL,
		Price:       input.Price,
		Guests:      input.Guests,
		Bedrooms:    input.Bedrooms,
		Beds:        input.Beds,
		Baths:       input.Baths,
		Amenities:   input.Amenities,
		ProfileID:   input.ProfileID,
	})
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	if err := s.events.PublishPropertyCreated(ctx, property); err != nil {
		s.logger.WarnContext(ctx, "failed to publish property.created",
			slog.String("property_id", property.ID),
			slog.String("error", err.Error()),
		)
	}

	s.revalidate.Invalidate(ctx, "/")

	s.logger.InfoContext(ctx, "property created",
		slog.String("property_id", property.ID),
		slog.String("category", property.Category),
	)

	return property, nil
}

// List returns property cards matching the filter, with the total count.
func (s *PropertyService) List(ctx context.Context, filter repository.PropertyFilter, page, perPage int) ([]*domain.PropertyCard, int, error) {
	cards, total, err := s.repo.List(ctx, filter, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	return cards, total, nil
}

// Get returns the property with its owner embedded.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.PropertyDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListByOwner returns the profile's own listings as cards.
func (s *PropertyService) ListByOwner(ctx context.Context, profileID string) ([]*domain.PropertyCard, error) {
	cards, err := s.repo.ListByOwner(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list own properties: %w", err)
	}
	return cards, nil
}
