package router

import (
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupUserRoutes(mux *chi.Mux, h *handler.UserHandler, authn *middleware.Authenticator) {
	mux.Group(func(r chi.Router) {
		r.Use(authn.Optional)
		r.Get("/api/users/{id}", h.HandleProfile)
	})
}

func SetupNotificationRoutes(mux *chi.Mux, h *handler.NotificationHandler, authn *middleware.Authenticator) {
	mux.Group(func(r chi.Router) {
		r.Use(authn.Required)
		r.Get("/api/notifications", h.HandleList)
		r.Get("/api/notifications/unread-count", h.HandleUnreadCount)
		r.Post("/api/notifications/read-all", h.HandleMarkAllRead)
		r.Post("/api/notifications/{id}/read", h.HandleMarkRead)
		r.Delete("/api/notifications/{id}", h.HandleDelete)
		r.Delete("/api/notifications", h.HandleClearAll)
	})
}
