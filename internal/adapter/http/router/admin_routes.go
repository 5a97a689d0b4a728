package router

import (
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupAdminRoutes mounts the admin surface. The usecases reject non-admins.
func SetupAdminRoutes(mux *chi.Mux, h *handler.AdminHandler, authn *middleware.Authenticator) {
	mux.Group(func(r chi.Router) {
		r.Use(authn.Required)

		r.Get("/api/admin/dashboard", h.HandleDashboard)
		r.Get("/api/admin/users", h.HandleUsers)
		r.Get("/api/admin/listings", h.HandleListings)
		r.Get("/api/admin/admins", h.HandleAdmins)
		r.Get("/api/admin/feedback", h.HandleFeedback)
		r.Get("/api/admin/interests", h.HandleInterests)
		r.Get("/api/admin/notifications", h.HandleNotifications)
		r.Delete("/api/admin/users/{id}", h.HandleDeleteUser)
	})
}
