package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/identity"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	"github.com/qm1997qm/home-away-clone/internal/storage"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// ProfileEvents publishes profile lifecycle events.
type ProfileEvents interface {
	PublishProfileCreated(ctx context.Context, profile *domain.Profile) error
}

// CreateProfileInput holds the onboarding form fields.
type CreateProfileInput struct {
	ClerkID      string `validate:"required"`
	Email        string `validate:"required,email"`
	ProfileImage string
	FirstName    string `validate:"required,max=50"`
	LastName     string `validate:"required,max=50"`
	Username     string `validate:"required,max=50"`
}

// UpdateProfileInput holds the editable display fields.
type UpdateProfileInput struct {
	ProfileID string `validate:"required"`
	FirstName string `validate:"required,max=50"`
	LastName  string `validate:"required,max=50"`
	Username  string `validate:"required,max=50"`
}

// ProfileService implements profile onboarding and maintenance.
type ProfileService struct {
	repo       repository.ProfileRepository
	metadata   identity.MetadataUpdater
	store      storage.Storage
	events     ProfileEvents
	revalidate Revalidator
	logger     *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, metadata identity.MetadataUpdater, store storage.Storage, events ProfileEvents, revalidate Revalidator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:       repo,
		metadata:   metadata,
		store:      store,
		events:     events,
		revalidate: revalidate,
		logger:     logger,
	}
}

// Create completes onboarding: it persists the profile and flips
// has_profile on the identity provider so future session tokens carry the
// claim. Profiles are never deleted.
func (s *ProfileService) Create(ctx context.Context, input CreateProfileInput) (*domain.Profile, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	profile, err := s.repo.Create(ctx, &domain.Profile{
		ClerkID:      input.ClerkID,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		ProfileImage: input.ProfileImage,
	})
	if err != nil {
		return nil, err
	}

	if err := s.metadata.MarkProfileCreated(ctx, input.ClerkID); err != nil {
		// The profile row exists; the claim catches up on the next metadata
		// sync. Surfacing an error here would orphan the created profile.
		s.logger.ErrorContext(ctx, "failed to mark profile created on identity provider",
			slog.String("profile_id", profile.ID),
			slog.String("clerk_id", input.ClerkID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishProfileCreated(ctx, profile); err != nil {
		s.logger.WarnContext(ctx, "failed to publish profile.created",
			slog.String("profile_id", profile.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "profile created",
		slog.String("profile_id", profile.ID),
		slog.String("username", profile.Username),
	)

	return profile, nil
}

// GetByClerkID fetches the profile belonging to the given identity.
func (s *ProfileService) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	profile, err := s.repo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Update rewrites the profile's display fields.
func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*domain.Profile, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	profile, err := s.repo.Update(ctx, &domain.Profile{
		ID:        input.ProfileID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
	})
	if err != nil {
		return nil, err
	}

	s.revalidate.Invalidate(ctx, "/profile")

	s.logger.InfoContext(ctx, "profile updated", slog.String("profile_id", profile.ID))

	return profile, nil
}

// UpdateImage validates and uploads a new profile image, then stores its URL.
func (s *ProfileService) UpdateImage(ctx context.Context, profileID string, img *ImageUpload) (string, error) {
	if err := validateImage(img); err != nil {
		return "", err
	}

	imageURL, err := uploadImage(ctx, s.store, "profiles", img)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateImage(ctx, profileID, imageURL); err != nil {
		return "", fmt.Errorf("store profile image url: %w", err)
	}

	s.revalidate.Invalidate(ctx, "/profile")

	s.logger.InfoContext(ctx, "profile image updated", slog.String("profile_id", profileID))

	return imageURL, nil
}
