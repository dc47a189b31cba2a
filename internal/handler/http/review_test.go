package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

type stubReviewRepo struct {
	summary   *domain.RatingSummary
	created   *domain.Review
	exists    bool
	deleteErr error
}

func (s *stubReviewRepo) Create(_ context.Context, r *domain.Review) (*domain.Review, error) {
	if s.created != nil {
		return s.created, nil
	}
	out := *r
	out.ID = "rev-new"
	return &out, nil
}

func (s *stubReviewRepo) ListByProperty(_ context.Context, _ string) ([]*domain.ReviewWithAuthor, error) {
	return []*domain.ReviewWithAuthor{}, nil
}

func (s *stubReviewRepo) ListByAuthor(_ context.Context, _ string) ([]*domain.ReviewWithProperty, error) {
	return []*domain.ReviewWithProperty{}, nil
}

func (s *stubReviewRepo) Delete(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func (s *stubReviewRepo) GetSummary(_ context.Context, _ string) (*domain.RatingSummary, error) {
	return s.summary, nil
}

func (s *stubReviewRepo) ExistsByAuthorAndProperty(_ context.Context, _, _ string) (bool, error) {
	return s.exists, nil
}

type stubReviewEvents struct{}

func (stubReviewEvents) PublishReviewCreated(_ context.Context, _ *domain.Review) error {
	return nil
}

func (stubReviewEvents) PublishReviewDeleted(_ context.Context, _, _ string) error {
	return nil
}

func newReviewTestRouter(repo *stubReviewRepo, profiles ProfileResolver) http.Handler {
	svc := service.NewReviewService(repo, stubReviewEvents{}, noopRevalidator{}, testLogger())
	h := NewReviewHandler(svc, profiles, testLogger())

	r := chi.NewRouter()
	r.Get("/api/v1/properties/{propertyID}/rating", h.Rating)
	r.Post("/api/v1/reviews", h.Create)
	r.Delete("/api/v1/reviews/{reviewID}", h.Delete)
	return r
}

func TestRating_PublicAndRounded(t *testing.T) {
	repo := &stubReviewRepo{summary: &domain.RatingSummary{Rating: 4.3, Count: 3}}
	router := newReviewTestRouter(repo, ownerProfile())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/prop-1/rating", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data domain.RatingSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4.3, body.Data.Rating)
	assert.Equal(t, 3, body.Data.Count)
}

func TestRating_ZeroReviews(t *testing.T) {
	repo := &stubReviewRepo{summary: &domain.RatingSummary{Rating: 0, Count: 0}}
	router := newReviewTestRouter(repo, ownerProfile())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/prop-empty/rating", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data domain.RatingSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body.Data.Rating)
	assert.Equal(t, 0, body.Data.Count)
}

func TestReviewCreate_ValidationErrorsJoined(t *testing.T) {
	router := newReviewTestRouter(&stubReviewRepo{}, ownerProfile())

	// Rating out of range and comment too short, reported together.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews",
		strings.NewReader(`{"property_id":"prop-1","rating":6,"comment":"short"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Len(t, body.Error.Fields, 2)
}

func TestReviewCreate_Success(t *testing.T) {
	router := newReviewTestRouter(&stubReviewRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews",
		strings.NewReader(`{"property_id":"prop-1","rating":5,"comment":"A wonderful stay, will be back for sure."}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Data domain.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rev-new", body.Data.ID)
	assert.Equal(t, "profile-1", body.Data.ProfileID)
}

func TestReviewDelete_NotAuthorGets404(t *testing.T) {
	repo := &stubReviewRepo{deleteErr: apperrors.NotFound("review", "rev-1")}
	router := newReviewTestRouter(repo, ownerProfile())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/rev-1", nil)
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewDelete_Success(t *testing.T) {
	router := newReviewTestRouter(&stubReviewRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/rev-1", nil)
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Review deleted successfully", body.Data.Message)
}
