package handler

import (
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

type UserHandler struct {
	users  *usecase.UserUsecase
	logger *logger.Logger
}

func NewUserHandler(users *usecase.UserUsecase, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: log.Named("UserHTTPHandler")}
}

// HandleProfile serves the public profile. The e-mail is only shown to the
// profile owner and to admins.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	withEmail := false
	if v := viewer(r); v != nil {
		withEmail = v.IsAdmin() || v.Owns(profile.User.ID)
	}
	respondWithJSON(w, http.StatusOK, profileResponse{
		User:          toUserResponse(profile.User, withEmail),
		AverageRating: profile.AverageRating,
		TotalFeedback: profile.TotalFeedback,
		Listings:      toListingResponses(profile.Listings),
	})
}
