// Package http wires the application services to their HTTP routes.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qm1997qm/home-away-clone/internal/identity"
	"github.com/qm1997qm/home-away-clone/internal/service"
	"github.com/qm1997qm/home-away-clone/pkg/health"
	"github.com/qm1997qm/home-away-clone/pkg/middleware"
)

// RouterConfig bundles the dependencies for the HTTP router.
type RouterConfig struct {
	Profiles      *service.ProfileService
	Properties    *service.PropertyService
	Favorites     *service.FavoriteService
	Reviews       *service.ReviewService
	JWTManager    *identity.JWTManager
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
}

// NewRouter creates a chi router with all routes registered. Listing pages
// are public; everything that acts on behalf of a user requires a session.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Auth(cfg.JWTManager.Validator()))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("home-away"))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	profileHandler := NewProfileHandler(cfg.Profiles, cfg.Logger)
	propertyHandler := NewPropertyHandler(cfg.Properties, cfg.Profiles, cfg.Logger)
	favoriteHandler := NewFavoriteHandler(cfg.Favorites, cfg.Profiles, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Profiles, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public listing pages.
		r.Get("/properties", propertyHandler.List)
		r.Get("/properties/{propertyID}", propertyHandler.Get)
		r.Get("/properties/{propertyID}/rating", reviewHandler.Rating)
		r.Get("/properties/{propertyID}/reviews", reviewHandler.ListByProperty)

		// Per-user favorite state for the heart button.
		r.Get("/properties/{propertyID}/favorite", favoriteHandler.State)

		// Authenticated actions. The Auth middleware already populated the
		// claims; handlers resolve them and reject anonymous callers.
		r.Post("/properties", propertyHandler.Create)
		r.Get("/rentals", propertyHandler.ListOwn)

		r.Post("/favorites/toggle", favoriteHandler.Toggle)
		r.Get("/favorites", favoriteHandler.List)

		r.Post("/profile", profileHandler.Create)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
		r.Put("/profile/image", profileHandler.UpdateImage)

		r.Post("/reviews", reviewHandler.Create)
		r.Get("/reviews", reviewHandler.ListOwn)
		r.Delete("/reviews/{reviewID}", reviewHandler.Delete)
	})

	return r
}
