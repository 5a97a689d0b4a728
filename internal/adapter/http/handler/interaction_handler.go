package handler

import (
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

// InteractionHandler serves interests and feedback.
type InteractionHandler struct {
	interests *usecase.InterestUsecase
	feedback  *usecase.FeedbackUsecase
	logger    *logger.Logger
}

func NewInteractionHandler(interests *usecase.InterestUsecase, feedback *usecase.FeedbackUsecase, log *logger.Logger) *InteractionHandler {
	return &InteractionHandler{interests: interests, feedback: feedback, logger: log.Named("InteractionHTTPHandler")}
}

func (h *InteractionHandler) HandleShowInterest(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	listingID, err := idParam(r, "id")
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	var req interestRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	interest, err := h.interests.ShowInterest(r.Context(), p, listingID, req.Message)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toInterestResponse(*interest))
}

func (h *InteractionHandler) HandleDeleteInterest(w http.ResponseWriter, r *http.Request) {
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
	if err := h.interests.Delete(r.Context(), p, id); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InteractionHandler) HandleAddFeedback(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	listingID, err := idParam(r, "id")
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	feedback, err := h.feedback.Add(r.Context(), p, listingID, req.Rating, req.Comment)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toFeedbackResponse(*feedback))
}

func (h *InteractionHandler) HandleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
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
	if err := h.feedback.Delete(r.Context(), p, id); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
