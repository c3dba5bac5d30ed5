package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the public browse routes and the JWT-guarded mutation
// routes. Sign-in, sign-up and password flows live with the identity
// provider, not here.
func NewRouter(h *Handlers, jwtSecret string, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/api/categories/{category}/listings", h.HandleCategoryPage)
	r.Get("/api/listings/{id}", h.HandleGetListing)

	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, logger))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)

		r.Get("/api/profile/listings", h.HandleMyListings)
		r.Patch("/api/profile", h.HandleUpdateProfile)
	})

	return r
}
