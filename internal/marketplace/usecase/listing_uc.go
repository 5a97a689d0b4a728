package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"go.uber.org/zap"
)

// ListingUsecase implements the listing lifecycle.
type ListingUsecase struct {
	tx                    domain.Transactor
	publisher             domain.EventPublisher
	metrics               *metrics.MetricsManager
	logger                *logger.Logger
	caseInsensitiveSearch bool
	now                   func() time.Time
}

func NewListingUsecase(tx domain.Transactor, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger, caseInsensitiveSearch bool) *ListingUsecase {
	return &ListingUsecase{
		tx:                    tx,
		publisher:             orNop(pub),
		metrics:               m,
		logger:                log.Named("ListingUsecase"),
		caseInsensitiveSearch: caseInsensitiveSearch,
		now:                   time.Now,
	}
}

func validateListing(in domain.ListingInput) error {
	if missing := in.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if long := in.TooLong(); len(long) > 0 {
		return fmt.Errorf("%w: %s too long", domain.ErrInvalidInput, strings.Join(long, ", "))
	}
	return nil
}

// Create adds a listing owned by the acting user.
func (uc *ListingUsecase) Create(ctx context.Context, actor domain.Principal, in domain.ListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Create")
	defer span.End()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	in = in.Normalize()
	if err := validateListing(in); err != nil {
		return nil, err
	}
	uc.logger.Info("Creating listing", zap.Int64("owner_user_id", actor.ID), zap.String("title", in.Title))

	now := uc.now()
	listing := &domain.Listing{
		Title:         in.Title,
		Category:      in.Category,
		ListingType:   in.ListingType,
		Description:   in.Description,
		Location:      in.Location,
		Tags:          in.Tags,
		OwnerUserID:   actor.ID,
		OwnerUsername: actor.Username,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Listings.Create(ctx, listing)
	})
	if err != nil {
		uc.logger.Error("Failed to save listing", zap.Error(err))
		return nil, err
	}

	uc.metrics.ListingCreated()
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingCreated, map[string]interface{}{
		"listing_id":    listing.ID,
		"owner_user_id": listing.OwnerUserID,
		"category":      listing.Category,
		"listing_type":  listing.ListingType,
		"created_at":    listing.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("Listing created", zap.Int64("listing_id", listing.ID))
	return listing, nil
}

// Get returns a listing with its aggregates. viewer may be nil for anonymous requests.
func (uc *ListingUsecase) Get(ctx context.Context, viewer *domain.Principal, id int64) (*domain.ListingDetail, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Get")
	defer span.End()

	var detail domain.ListingDetail
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		detail.Listing = *listing

		if detail.Feedback, err = repos.Feedback.ListByListing(ctx, id); err != nil {
			return err
		}
		summary, err := repos.Feedback.SummaryForListing(ctx, id)
		if err != nil {
			return err
		}
		detail.AverageRating = summary.Average
		detail.FeedbackCount = summary.Count
		detail.HasFeedback = summary.Count > 0
		detail.CanEdit = summary.Count == 0

		if detail.InterestCount, err = repos.Interests.CountByListing(ctx, id); err != nil {
			return err
		}

		if viewer != nil && viewer.IsUser() {
			detail.ViewerIsOwner = viewer.Owns(listing.OwnerUserID)
			if detail.ViewerHasReviewed, err = repos.Feedback.ExistsForReviewer(ctx, viewer.ID, id); err != nil {
				return err
			}
			if detail.ViewerShownInterest, err = repos.Interests.Exists(ctx, viewer.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Search filters listings by category, type and a substring of title or description.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Search")
	defer span.End()

	filter.Category = strings.TrimSpace(filter.Category)
	filter.ListingType = strings.TrimSpace(filter.ListingType)
	filter.Search = strings.TrimSpace(filter.Search)
	filter.CaseInsensitive = uc.caseInsensitiveSearch

	var out []domain.Listing
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = repos.Listings.Search(ctx, filter)
		return err
	})
	return out, err
}

// Recent returns the newest listings for the home page.
func (uc *ListingUsecase) Recent(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = repos.Listings.Recent(ctx, RecentListingsLimit)
		return err
	})
	return out, err
}

// ListMine returns the acting user's listings.
func (uc *ListingUsecase) ListMine(ctx context.Context, actor domain.Principal) ([]domain.Listing, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var out []domain.Listing
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = repos.Listings.ListByOwner(ctx, actor.ID)
		return err
	})
	return out, err
}

// Update replaces the editable fields of a listing. Only the owner may edit,
// and only while the listing has no feedback.
func (uc *ListingUsecase) Update(ctx context.Context, actor domain.Principal, id int64, in domain.ListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Update")
	defer span.End()

	in = in.Normalize()
	var listing *domain.Listing
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		if listing, err = repos.Listings.GetByID(ctx, id); err != nil {
			return err
		}
		if !actor.Owns(listing.OwnerUserID) {
			return domain.ErrNotOwner
		}
		summary, err := repos.Feedback.SummaryForListing(ctx, id)
		if err != nil {
			return err
		}
		if summary.Count > 0 {
			return domain.ErrListingLocked
		}
		if err := validateListing(in); err != nil {
			return err
		}

		listing.Title = in.Title
		listing.Category = in.Category
		listing.ListingType = in.ListingType
		listing.Description = in.Description
		listing.Location = in.Location
		listing.Tags = in.Tags
		listing.UpdatedAt = uc.now()
		return repos.Listings.Update(ctx, listing)
	})
	if err != nil {
		uc.logger.Warn("Listing update rejected", zap.Int64("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.metrics.ListingUpdated()
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingUpdated, map[string]interface{}{
		"listing_id": listing.ID,
		"updated_at": listing.UpdatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("Listing updated", zap.Int64("listing_id", listing.ID))
	return listing, nil
}

// Delete removes a listing with its notifications, feedback and interests.
// Allowed for the owner and for admins.
func (uc *ListingUsecase) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Delete")
	defer span.End()

	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Owns(listing.OwnerUserID) {
			return domain.ErrNotOwner
		}
		return deleteListingTree(ctx, repos, id)
	})
	if err != nil {
		uc.logger.Warn("Listing delete rejected", zap.Int64("listing_id", id), zap.Error(err))
		return err
	}

	uc.metrics.ListingDeleted()
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingDeleted, map[string]interface{}{
		"listing_id":    id,
		"deleted_by":    actor.ID,
		"deleted_by_as": actor.Kind,
	})
	uc.logger.Info("Listing deleted", zap.Int64("listing_id", id), zap.String("actor_kind", string(actor.Kind)))
	return nil
}

func deleteListingTree(ctx context.Context, repos domain.Repositories, id int64) error {
	if err := repos.Notifications.DeleteByListing(ctx, id); err != nil {
		return err
	}
	if err := repos.Feedback.DeleteByListing(ctx, id); err != nil {
		return err
	}
	if err := repos.Interests.DeleteByListing(ctx, id); err != nil {
		return err
	}
	return repos.Listings.Delete(ctx, id)
}

// ListInterests shows who is interested in a listing. Owner or admin only.
func (uc *ListingUsecase) ListInterests(ctx context.Context, actor domain.Principal, id int64) ([]domain.Interest, error) {
	var out []domain.Interest
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Owns(listing.OwnerUserID) {
			return domain.ErrForbidden
		}
		out, err = repos.Interests.ListByListing(ctx, id)
		return err
	})
	return out, err
}
