package router

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/handler"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth          *handler.AuthHandler
	Listings      *handler.ListingHandler
	Interactions  *handler.InteractionHandler
	Notifications *handler.NotificationHandler
	Admin         *handler.AdminHandler
	Users         *handler.UserHandler
}

type Options struct {
	Authenticator  *middleware.Authenticator
	// AuthLimiter throttles register and login. Nil disables throttling.
	AuthLimiter    *middleware.RateLimiter
	// TrustedProxies may set the client address through X-Forwarded-For
	// and X-Real-IP. Empty means the socket address is always used.
	TrustedProxies []netip.Prefix
	Metrics        *metrics.MetricsManager
	Logger         *logger.Logger
	// HealthCheck backs /healthz. Nil always reports ok.
	HealthCheck    func(ctx context.Context) error
}

func NewRouter(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.TrustedRealIP(opts.TrustedProxies))
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	r.Get("/healthz", healthHandler(opts.HealthCheck, opts.Logger))

	SetupAuthRoutes(r, h.Auth, opts.Authenticator, opts.AuthLimiter)
	SetupListingRoutes(r, h.Listings, h.Interactions, opts.Authenticator)
	SetupUserRoutes(r, h.Users, opts.Authenticator)
	SetupNotificationRoutes(r, h.Notifications, opts.Authenticator)
	SetupAdminRoutes(r, h.Admin, opts.Authenticator)
	return r
}

func healthHandler(check func(ctx context.Context) error, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
