package handler

import (
	"net/http"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/usecase"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

type ListingHandler struct {
	listings *usecase.ListingUsecase
	logger   *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, log *logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, logger: log.Named("ListingHTTPHandler")}
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	listing, err := h.listings.Create(r.Context(), p, req.toInput())
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toListingResponse(*listing))
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	detail, err := h.listings.Get(r.Context(), viewer(r), id)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toListingDetailResponse(detail))
}

// HandleSearchListings filters by ?category=, ?type= and ?search=.
func (h *ListingHandler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings, err := h.listings.Search(r.Context(), domain.ListingFilter{
		Category:    q.Get("category"),
		ListingType: q.Get("type"),
		Search:      q.Get("search"),
	})
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) HandleRecentListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.Recent(r.Context())
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	listings, err := h.listings.ListMine(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
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
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	listing, err := h.listings.Update(r.Context(), p, id, req.toInput())
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
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
	if err := h.listings.Delete(r.Context(), p, id); err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) HandleListInterests(w http.ResponseWriter, r *http.Request) {
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
	interests, err := h.listings.ListInterests(r.Context(), p, id)
	if err != nil {
		handleDomainError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toInterestResponses(interests))
}
