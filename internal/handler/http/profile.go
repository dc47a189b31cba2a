package http

import (
	"log/slog"
	"net/http"

	"github.com/qm1997qm/home-away-clone/internal/identity"
	"github.com/qm1997qm/home-away-clone/internal/service"
	"github.com/qm1997qm/home-away-clone/pkg/httputil"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// ProfileHandler handles HTTP requests for profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// CreateProfileRequest is the onboarding payload.
type CreateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Username  string `json:"username" validate:"required,max=50"`
}

// UpdateProfileRequest edits the display fields.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Username  string `json:"username" validate:"required,max=50"`
}

// Create handles POST /api/v1/profile. This is the one authenticated route
// that must work before onboarding completes, so it resolves the identity
// without requiring the has_profile claim.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := identity.ResolveIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.profiles.Create(r.Context(), service.CreateProfileInput{
		ClerkID:      user.ID,
		Email:        user.Email,
		ProfileImage: user.ImageURL,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: profile})
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.profiles.Update(r.Context(), service.UpdateProfileInput{
		ProfileID: profile.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// UpdateImage handles PUT /api/v1/profile/image (multipart form with image)
func (h *ProfileHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	img, err := imageFromForm(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	url, err := h.profiles.UpdateImage(r.Context(), profile.ID, img)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"profile_image": url},
	})
}
