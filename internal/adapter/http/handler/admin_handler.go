package handler

import (
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

type AdminHandler struct {
	admin  *usecase.AdminUsecase
	logger *logger.Logger
}

func NewAdminHandler(admin *usecase.AdminUsecase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: log.Named("AdminHTTPHandler")}
}

// list runs an admin read and writes the converted result.
func list[T any, R any](h *AdminHandler, w http.ResponseWriter, r *http.Request,
	fetch func(p domain.Principal) ([]T, error), convert func([]T) R) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	items, err := fetch(p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, convert(items))
}

func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	d, err := h.admin.Dashboard(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboardResponse{
		Users:               toUserResponses(d.Users, true),
		Listings:            toListingResponses(d.Listings),
		Admins:              toAdminResponses(d.Admins),
		Feedback:            toFeedbackResponses(d.Feedback),
		RecentInterests:     toInterestResponses(d.RecentInterests),
		RecentNotifications: toNotificationResponses(d.RecentNotifications),
	})
}

func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.User, error) {
		return h.admin.ListUsers(r.Context(), p)
	}, func(users []domain.User) []userResponse { return toUserResponses(users, true) })
}

func (h *AdminHandler) HandleListings(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.Listing, error) {
		return h.admin.ListListings(r.Context(), p)
	}, toListingResponses)
}

func (h *AdminHandler) HandleAdmins(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.Admin, error) {
		return h.admin.ListAdmins(r.Context(), p)
	}, toAdminResponses)
}

func (h *AdminHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.Feedback, error) {
		return h.admin.ListFeedback(r.Context(), p)
	}, toFeedbackResponses)
}

func (h *AdminHandler) HandleInterests(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.Interest, error) {
		return h.admin.RecentInterests(r.Context(), p)
	}, toInterestResponses)
}

func (h *AdminHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, func(p domain.Principal) ([]domain.Notification, error) {
		return h.admin.RecentNotifications(r.Context(), p)
	}, toNotificationResponses)
}

func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	if err := h.admin.DeleteUser(r.Context(), p, id); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
