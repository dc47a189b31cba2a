package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qm1997qm/home-away-clone/internal/repository"
	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/httputil"
	"github.com/qm1997qm/home-away-clone/pkg/pagination"
)

// PropertyHandler handles HTTP requests for property endpoints.
type PropertyHandler struct {
	properties *service.PropertyService
	profiles   ProfileResolver
	logger     *slog.Logger
}

// NewPropertyHandler creates a new property HTTP handler.
func NewPropertyHandler(properties *service.PropertyService, profiles ProfileResolver, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, profiles: profiles, logger: logger}
}

// List handles GET /api/v1/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.PropertyFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	params := pagination.FromRequest(r)

	cards, total, err := h.properties.List(r.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(cards, total, params.Page, params.PerPage))
}

// Get handles GET /api/v1/properties/{propertyID}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("property id is required"), h.logger)
		return
	}

	detail, err := h.properties.Get(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// Create handles POST /api/v1/properties (multipart form with image)
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	input := service.CreatePropertyInput{
		ProfileID:   profile.ID,
		Name:        r.FormValue("name"),
		Tagline:     r.FormValue("tagline"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Country:     r.FormValue("country"),
		Price:       formInt(r, "price"),
		Guests:      formInt(r, "guests"),
		Bedrooms:    formInt(r, "bedrooms"),
		Beds:        formInt(r, "beds"),
		Baths:       formInt(r, "baths"),
		Amenities:   r.FormValue("amenities"),
		Image:       img,
	}

	property, err := h.properties.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: property})
}

// ListOwn handles GET /api/v1/rentals
func (h *PropertyHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	profile, err := currentProfile(r.Context(), h.profiles)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cards, err := h.properties.ListByOwner(r.Context(), profile.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cards})
}

func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(r.FormValue(field))
	return n
}
