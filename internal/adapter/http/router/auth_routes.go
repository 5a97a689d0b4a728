package router

import (
	"encoding/json"
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupAuthRoutes mounts registration, login and the session routes.
func SetupAuthRoutes(mux *chi.Mux, h *handler.AuthHandler, authn *middleware.Authenticator, limiter *middleware.RateLimiter) {
	mux.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Handler)
		}
		r.Post("/api/register", h.HandleRegister)
		r.Post("/api/login", h.HandleLogin)
	})

	mux.Group(func(r chi.Router) {
		r.Use(authn.Required)
		r.Post("/api/logout", h.HandleLogout)
		r.Get("/api/me", h.HandleMe)
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
