package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/http/middleware"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/token"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

// SessionIssuer creates and revokes session tokens.
type SessionIssuer interface {
	Issue(p domain.Principal) (string, time.Time, error)
	Revoke(ctx context.Context, s token.Session) error
}

// AuthHandler serves registration, login, logout and the current actor.
type AuthHandler struct {
	auth   *usecase.AuthUsecase
	users  *usecase.UserUsecase
	tokens SessionIssuer
	logger *logger.Logger
}

func NewAuthHandler(auth *usecase.AuthUsecase, users *usecase.UserUsecase, tokens SessionIssuer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, tokens: tokens, logger: log.Named("AuthHTTPHandler")}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	user, err := h.auth.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Location: req.Location,
	})
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toUserResponse(*user, true))
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	p, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	signed, expiresAt, err := h.tokens.Issue(p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, loginResponse{Token: signed, ExpiresAt: expiresAt, Principal: toPrincipalResponse(p)})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handleDomainError(w, r, domain.ErrUnauthenticated, h.logger)
		return
	}
	if err := h.tokens.Revoke(r.Context(), session); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	actor, err := h.users.CurrentActor(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, meResponse{Principal: toPrincipalResponse(actor.Principal), UnreadCount: actor.UnreadCount})
}
