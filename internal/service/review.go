package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// ReviewEvents publishes review lifecycle events.
type ReviewEvents interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, reviewID, profileID string) error
}

// CreateReviewInput holds the parameters for submitting a review.
type CreateReviewInput struct {
	ProfileID  string `validate:"required"`
	PropertyID string `validate:"required"`
	Rating     int    `validate:"required,min=1,max=5"`
	Comment    string `validate:"required,min=10,max=1000"`
}

// ReviewService implements the business logic for property reviews,
// including the rating aggregation read path.
type ReviewService struct {
	repo       repository.ReviewRepository
	events     ReviewEvents
	revalidate Revalidator
	logger     *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, events ReviewEvents, revalidate Revalidator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:       repo,
		events:     events,
		revalidate: revalidate,
		logger:     logger,
	}
}

// Create submits a review. Each profile may review a property once;
// resubmission means deleting the old review first.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByAuthorAndProperty(ctx, input.ProfileID, input.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("review", "property_id", input.PropertyID)
	}

	review, err := s.repo.Create(ctx, &domain.Review{
		Rating:     input.Rating,
		Comment:    input.Comment,
		ProfileID:  input.ProfileID,
		PropertyID: input.PropertyID,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.events.PublishReviewCreated(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.revalidate.Invalidate(ctx, "/properties/"+input.PropertyID)

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("property_id", review.PropertyID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// PropertyRating returns the property's average rating rounded to one
// decimal place and the review count. A property without reviews yields
// {0, 0}; absence of reviews is not an error.
func (s *ReviewService) PropertyRating(ctx context.Context, propertyID string) (*domain.RatingSummary, error) {
	summary, err := s.repo.GetSummary(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get property rating: %w", err)
	}
	return summary, nil
}

// ListByProperty returns the property's reviews with author details, newest
// first.
func (s *ReviewService) ListByProperty(ctx context.Context, propertyID string) ([]*domain.ReviewWithAuthor, error) {
	reviews, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list property reviews: %w", err)
	}
	return reviews, nil
}

// ListByAuthor returns the profile's own reviews with property details,
// newest first.
func (s *ReviewService) ListByAuthor(ctx context.Context, profileID string) ([]*domain.ReviewWithProperty, error) {
	reviews, err := s.repo.ListByAuthor(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list own reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review. The repository scopes the delete to the author,
// so a non-author gets NotFound rather than a silent success.
func (s *ReviewService) Delete(ctx context.Context, reviewID, profileID string) error {
	if err := s.repo.Delete(ctx, reviewID, profileID); err != nil {
		return err
	}

	if err := s.events.PublishReviewDeleted(ctx, reviewID, profileID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.deleted",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.revalidate.Invalidate(ctx, "/reviews")

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
	)

	return nil
}
