package handler

import (
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

// NotificationHandler serves the recipient's inbox.
type NotificationHandler struct {
	notifications *usecase.NotificationUsecase
	logger        *logger.Logger
}

func NewNotificationHandler(notifications *usecase.NotificationUsecase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: log.Named("NotificationHTTPHandler")}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	notifications, err := h.notifications.List(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	n, err := h.notifications.UnreadCount(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
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
	n, err := h.notifications.MarkRead(r.Context(), p, id)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toNotificationResponse(*n))
}

func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	n, err := h.notifications.MarkAllRead(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.notifications.Delete(r.Context(), p, id); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	n, err := h.notifications.ClearAll(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, countResponse{Count: n})
}
