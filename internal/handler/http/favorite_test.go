package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Stubs ---

type stubProfileResolver struct {
	profile *domain.Profile
	err     error
}

func (s *stubProfileResolver) GetByClerkID(_ context.Context, _ string) (*domain.Profile, error) {
	return s.profile, s.err
}

type stubFavoriteRepo struct {
	findID    string
	created   *domain.Favorite
	createErr error
	deleteErr error
}

func (s *stubFavoriteRepo) Create(_ context.Context, profileID, propertyID string) (*domain.Favorite, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	return &domain.Favorite{ID: "fav-new", ProfileID: profileID, PropertyID: propertyID}, nil
}

func (s *stubFavoriteRepo) Delete(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func (s *stubFavoriteRepo) FindID(_ context.Context, _, _ string) (string, error) {
	return s.findID, nil
}

func (s *stubFavoriteRepo) ListProperties(_ context.Context, _ string, _, _ int) ([]*domain.PropertyCard, int, error) {
	return []*domain.PropertyCard{}, 0, nil
}

type noopRevalidator struct{}

func (noopRevalidator) Invalidate(_ context.Context, _ ...string) {}

func newFavoriteTestHandler(repo *stubFavoriteRepo, profiles ProfileResolver) *FavoriteHandler {
	svc := service.NewFavoriteService(repo, noopRevalidator{}, testLogger())
	return NewFavoriteHandler(svc, profiles, testLogger())
}

func authedContext(hasProfile bool) context.Context {
	return middleware.WithClaims(context.Background(), &middleware.Claims{
		UserID:     "user-1",
		Email:      "maya@example.com",
		HasProfile: hasProfile,
	})
}

func ownerProfile() *stubProfileResolver {
	return &stubProfileResolver{profile: &domain.Profile{ID: "profile-1", ClerkID: "user-1"}}
}

// --- Tests ---

func TestToggle_RequiresAuth(t *testing.T) {
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestToggle_RequiresProfile(t *testing.T) {
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(false))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PROFILE_REQUIRED", body.Error.Code)
}

func TestToggle_ProfileLookupFailureIsInternal(t *testing.T) {
	// A store outage while loading the profile must not masquerade as
	// incomplete onboarding.
	resolver := &stubProfileResolver{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, resolver)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestToggle_MissingProfileRowRequiresOnboarding(t *testing.T) {
	resolver := &stubProfileResolver{err: apperrors.NotFound("profile", "user-1")}
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, resolver)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PROFILE_REQUIRED", body.Error.Code)
}

func TestToggle_AddsWhenSnapshotEmpty(t *testing.T) {
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data service.ToggleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Favorited)
	assert.Equal(t, "fav-new", body.Data.FavoriteID)
	assert.Equal(t, "Added to Faves", body.Data.Message)
}

func TestToggle_RemovesWhenSnapshotSet(t *testing.T) {
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","favorite_id":"fav-1","path":"/favorites"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data service.ToggleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Favorited)
	assert.Equal(t, "Removed from Faves", body.Data.Message)
}

func TestToggle_StaleSnapshotConflict(t *testing.T) {
	repo := &stubFavoriteRepo{createErr: apperrors.AlreadyExists("favorite", "property_id", "prop-1")}
	h := newFavoriteTestHandler(repo, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"property_id":"prop-1","path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ALREADY_EXISTS", body.Error.Code)
}

func TestToggle_MissingPropertyID(t *testing.T) {
	h := newFavoriteTestHandler(&stubFavoriteRepo{}, ownerProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle",
		strings.NewReader(`{"path":"/properties/prop-1"}`))
	req = req.WithContext(authedContext(true))
	rec := httptest.NewRecorder()

	h.Toggle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
