package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/httputil"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	reviews  *service.ReviewService
	profiles ProfileResolver
	logger   *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, profiles ProfileResolver, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, profiles: profiles, logger: logger}
}

// CreateReviewRequest is the submit-review payload.
type CreateReviewRequest struct {
	PropertyID string `json:"property_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required,min=10,max=1000"`
}

// Create handles POST /api/v1/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), service.CreateReviewInput{
		ProfileID:  profile.ID,
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListByProperty handles GET /api/v1/properties/{propertyID}/reviews
func (h *ReviewHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("property id is required"), h.logger)
		return
	}

	reviews, err := h.reviews.ListByProperty(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Rating handles GET /api/v1/properties/{propertyID}/rating
func (h *ReviewHandler) Rating(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("property id is required"), h.logger)
		return
	}

	summary, err := h.reviews.PropertyRating(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// ListOwn handles GET /api/v1/reviews
func (h *ReviewHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviews, err := h.reviews.ListByAuthor(r.Context(), profile.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Delete handles DELETE /api/v1/reviews/{reviewID}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviewID := chi.URLParam(r, "reviewID")
	if reviewID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("review id is required"), h.logger)
		return
	}

	if err := h.reviews.Delete(r.Context(), reviewID, profile.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Review deleted successfully")
}
