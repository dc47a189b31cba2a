package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// Revalidator invalidates cached page renders after a mutation.
type Revalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// ToggleInput carries the client's snapshot of the favorite state.
// KnownFavoriteID is what the client last rendered: set means the client saw
// the property as favorited and wants it removed, empty means the opposite.
type ToggleInput struct {
	ProfileID       string
	PropertyID      string
	KnownFavoriteID string
	Path            string
}

// ToggleResult reports the new state after a toggle.
type ToggleResult struct {
	Favorited  bool   `json:"favorited"`
	FavoriteID string `json:"favorite_id,omitempty"`
	Message    string `json:"message"`
}

const (
	msgAddedToFaves     = "Added to Faves"
	msgRemovedFromFaves = "Removed from Faves"
)

// FavoriteService implements the favorite toggle and listing logic.
type FavoriteService struct {
	repo       repository.FavoriteRepository
	revalidate Revalidator
	logger     *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(repo repository.FavoriteRepository, revalidate Revalidator, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:       repo,
		revalidate: revalidate,
		logger:     logger,
	}
}

// ResolveFavoriteID returns the favorite ID for the profile and property, or
// "" when the property is not favorited. Clients render the heart state from
// this and send it back as the snapshot for Toggle.
func (s *FavoriteService) ResolveFavoriteID(ctx context.Context, profileID, propertyID string) (string, error) {
	id, err := s.repo.FindID(ctx, profileID, propertyID)
	if err != nil {
		return "", fmt.Errorf("resolve favorite id: %w", err)
	}
	return id, nil
}

// Toggle flips the favorite state based on the client's snapshot. The
// decision is made from KnownFavoriteID alone; the current database state is
// never re-checked first. Two clients racing on a stale snapshot are caught
// by the unique index (create) or by the missing row (delete).
func (s *FavoriteService) Toggle(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	if input.KnownFavoriteID != "" {
		return s.remove(ctx, input)
	}
	return s.add(ctx, input)
}

func (s *FavoriteService) add(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	fav, err := s.repo.Create(ctx, input.ProfileID, input.PropertyID)
	if err != nil {
		// A unique violation means another request favorited first. The
		// snapshot is stale; surface the conflict so the caller re-resolves.
		return nil, err
	}

	s.revalidate.Invalidate(ctx, input.Path)

	s.logger.InfoContext(ctx, "favorite added",
		slog.String("favorite_id", fav.ID),
		slog.String("property_id", input.PropertyID),
	)

	return &ToggleResult{
		Favorited:  true,
		FavoriteID: fav.ID,
		Message:    msgAddedToFaves,
	}, nil
}

func (s *FavoriteService) remove(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	err := s.repo.Delete(ctx, input.KnownFavoriteID, input.ProfileID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}
	// A missing row means another request already removed it. The desired
	// end state holds either way, so this is a success.

	s.revalidate.Invalidate(ctx, input.Path)

	s.logger.InfoContext(ctx, "favorite removed",
		slog.String("favorite_id", input.KnownFavoriteID),
		slog.String("property_id", input.PropertyID),
		slog.Bool("already_gone", errors.Is(err, apperrors.ErrNotFound)),
	)

	return &ToggleResult{
		Favorited: false,
		Message:   msgRemovedFromFaves,
	}, nil
}

// ListProperties returns the profile's favorited properties as cards, with
// the total count for pagination.
func (s *FavoriteService) ListProperties(ctx context.Context, profileID string, page, perPage int) ([]*domain.PropertyCard, int, error) {
	cards, total, err := s.repo.ListProperties(ctx, profileID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorite properties: %w", err)
	}
	return cards, total, nil
}
