package router

import (
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupListingRoutes mounts listings together with their interests and feedback.
func SetupListingRoutes(mux *chi.Mux, h *handler.ListingHandler, ih *handler.InteractionHandler, authn *middleware.Authenticator) {
	// Public, but personalised when a token is sent.
	mux.Group(func(r chi.Router) {
		r.Use(authn.Optional)
		r.Get("/api/listings", h.HandleSearchListings)
		r.Get("/api/listings/recent", h.HandleRecentListings)
		r.Get("/api/listings/{id}", h.HandleGetListing)
	})

	mux.Group(func(r chi.Router) {
		r.Use(authn.Required)

		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)
		r.Get("/api/my/listings", h.HandleMyListings)

		r.Get("/api/listings/{id}/interests", h.HandleListInterests)
		r.Post("/api/listings/{id}/interests", ih.HandleShowInterest)
		r.Delete("/api/interests/{id}", ih.HandleDeleteInterest)

		r.Post("/api/listings/{id}/feedback", ih.HandleAddFeedback)
		r.Delete("/api/feedback/{id}", ih.HandleDeleteFeedback)
	})
}
