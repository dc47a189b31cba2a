package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.ReviewWithAuthor, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewWithAuthor), args.Error(1)
}

func (m *mockReviewRepository) ListByAuthor(ctx context.Context, profileID string) ([]*domain.ReviewWithProperty, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewWithProperty), args.Error(1)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id, profileID string) error {
	args := m.Called(ctx, id, profileID)
	return args.Error(0)
}

func (m *mockReviewRepository) GetSummary(ctx context.Context, propertyID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockReviewRepository) ExistsByAuthorAndProperty(ctx context.Context, profileID, propertyID string) (bool, error) {
	args := m.Called(ctx, profileID, propertyID)
	return args.Bool(0), args.Error(1)
}

// --- Mock Review Events ---

type mockReviewEvents struct {
	mock.Mock
}

func (m *mockReviewEvents) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewEvents) PublishReviewDeleted(ctx context.Context, reviewID, profileID string) error {
	args := m.Called(ctx, reviewID, profileID)
	return args.Error(0)
}

// --- Tests ---

func validComment() string {
	return "Beautiful place, exactly as described, and the host was lovely."
}

func TestReviewCreate_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	events := new(mockReviewEvents)
	reval := &recordingRevalidator{}
	svc := NewReviewService(repo, events, reval, newTestLogger())
	ctx := context.Background()

	repo.On("ExistsByAuthorAndProperty", ctx, "profile-1", "prop-1").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(&domain.Review{ID: "rev-1", Rating: 5, ProfileID: "profile-1", PropertyID: "prop-1"}, nil)
	events.On("PublishReviewCreated", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	review, err := svc.Create(ctx, CreateReviewInput{
		ProfileID:  "profile-1",
		PropertyID: "prop-1",
		Rating:     5,
		Comment:    validComment(),
	})

	require.NoError(t, err)
	assert.Equal(t, "rev-1", review.ID)
	assert.Equal(t, []string{"/properties/prop-1"}, reval.invalidated())
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestReviewCreate_RatingOutOfRange(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := NewReviewService(repo, new(mockReviewEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReviewInput{
		ProfileID:  "profile-1",
		PropertyID: "prop-1",
		Rating:     6,
		Comment:    validComment(),
	})

	require.Error(t, err)
	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "Rating")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewCreate_CommentTooShort(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := NewReviewService(repo, new(mockReviewEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReviewInput{
		ProfileID:  "profile-1",
		PropertyID: "prop-1",
		Rating:     4,
		Comment:    "too short",
	})

	require.Error(t, err)
	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewCreate_AlreadyReviewed(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := NewReviewService(repo, new(mockReviewEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	repo.On("ExistsByAuthorAndProperty", ctx, "profile-1", "prop-1").Return(true, nil)

	_, err := svc.Create(ctx, CreateReviewInput{
		ProfileID:  "profile-1",
		PropertyID: "prop-1",
		Rating:     4,
		Comment:    validComment(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyRating_ZeroReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := NewReviewService(repo, new(mockReviewEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	repo.On("GetSummary", ctx, "prop-empty").
		Return(&domain.RatingSummary{Rating: 0, Count: 0}, nil)

	summary, err := svc.PropertyRating(ctx, "prop-empty")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Rating)
	assert.Equal(t, 0, summary.Count)
	repo.AssertExpectations(t)
}

func TestPropertyRating_Rounded(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := NewReviewService(repo, new(mockReviewEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	repo.On("GetSummary", ctx, "prop-1").
		Return(&domain.RatingSummary{Rating: 4.3, Count: 3}, nil)

	summary, err := svc.PropertyRating(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 4.3, summary.Rating)
	assert.Equal(t, 3, summary.Count)
	repo.AssertExpectations(t)
}

func TestReviewDelete_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	events := new(mockReviewEvents)
	reval := &recordingRevalidator{}
	svc := NewReviewService(repo, events, reval, newTestLogger())
	ctx := context.Background()

	repo.On("Delete", ctx, "rev-1", "profile-1").Return(nil)
	events.On("PublishReviewDeleted", ctx, "rev-1", "profile-1").Return(nil)

	err := svc.Delete(ctx, "rev-1", "profile-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/reviews"}, reval.invalidated())
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestReviewDelete_NotAuthor(t *testing.T) {
	repo := new(mockReviewRepository)
	events := new(mockReviewEvents)
	reval := &recordingRevalidator{}
	svc := NewReviewService(repo, events, reval, newTestLogger())
	ctx := context.Background()

	repo.On("Delete", ctx, "rev-1", "profile-2").
		Return(apperrors.NotFound("review", "rev-1"))

	err := svc.Delete(ctx, "rev-1", "profile-2")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, reval.invalidated())
	events.AssertNotCalled(t, "PublishReviewDeleted", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestReviewCreate_PublishFailureDoesNotFail(t *testing.T) {
	repo := new(mockReviewRepository)
	events := new(mockReviewEvents)
	svc := NewReviewService(repo, events, &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	repo.On("ExistsByAuthorAndProperty", ctx, "profile-1", "prop-1").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(&domain.Review{ID: "rev-1", Rating: 4, ProfileID: "profile-1", PropertyID: "prop-1"}, nil)
	events.On("PublishReviewCreated", ctx, mock.AnythingOfType("*domain.Review")).
		Return(assert.AnError)

	review, err := svc.Create(ctx, CreateReviewInput{
		ProfileID:  "profile-1",
		PropertyID: "prop-1",
		Rating:     4,
		Comment:    strings.Repeat("solid stay ", 3),
	})

	require.NoError(t, err)
	assert.Equal(t, "rev-1", review.ID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}
