package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/httputil"
	"github.com/qm1997qm/home-away-clone/pkg/pagination"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// FavoriteHandler handles HTTP requests for favorite endpoints.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	profiles  ProfileResolver
	logger    *slog.Logger
}

// NewFavoriteHandler creates a new favorite HTTP handler.
func NewFavoriteHandler(favorites *service.FavoriteService, profiles ProfileResolver, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, profiles: profiles, logger: logger}
}

// --- DTOs ---

// ToggleRequest carries the client's snapshot of the favorite state.
// FavoriteID is what the client last rendered; the server decides add or
// remove from it without re-checking first.
type ToggleRequest struct {
	PropertyID string `json:"property_id" validate:"required"`
	FavoriteID string `json:"favorite_id"`
	Path       string `json:"path" validate:"required"`
}

// FavoriteStateResponse reports the favorite ID for a property, "" when the
// property is not favorited.
type FavoriteStateResponse struct {
	FavoriteID string `json:"favorite_id"`
}

// --- Handlers ---

// Toggle handles POST /api/v1/favorites/toggle
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.favorites.Toggle(r.Context(), service.ToggleInput{
		ProfileID:       profile.ID,
		PropertyID:      req.PropertyID,
		KnownFavoriteID: req.FavoriteID,
		Path:            req.Path,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// State handles GET /api/v1/properties/{propertyID}/favorite
func (h *FavoriteHandler) State(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("property id is required"), h.logger)
		return
	}

	favoriteID, err := h.favorites.ResolveFavoriteID(r.Context(), profile.ID, propertyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: FavoriteStateResponse{FavoriteID: favoriteID},
	})
}

// List handles GET /api/v1/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	params := pagination.FromRequest(r)
	cards, total, err := h.favorites.ListProperties(r.Context(), profile.ID, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(cards, total, params.Page, params.PerPage))
}
