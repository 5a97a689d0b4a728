package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"go.uber.org/zap"
)

// InterestUsecase lets users express interest in listings of other users.
type InterestUsecase struct {
	tx            domain.Transactor
	notifications *NotificationUsecase
	publisher     domain.EventPublisher
	metrics       *metrics.MetricsManager
	logger        *logger.Logger
}

func NewInterestUsecase(tx domain.Transactor, notifications *NotificationUsecase, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *InterestUsecase {
	return &InterestUsecase{
		tx:            tx,
		notifications: notifications,
		publisher:     orNop(pub),
		metrics:       m,
		logger:        log.Named("InterestUsecase"),
	}
}

// ShowInterest records the actor's interest and notifies the listing owner in
// the same transaction. A second interest in the same listing is a duplicate.
func (uc *InterestUsecase) ShowInterest(ctx context.Context, actor domain.Principal, listingID int64, message *string) (*domain.Interest, error) {
	ctx, span := tracer.Start(ctx, "InterestUsecase.ShowInterest")
	defer span.End()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	message = domain.OptionalText(message)

	var (
		interest *domain.Interest
		delivery Delivery
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.GetByID(ctx, listingID)
		if err != nil {
			return err
		}
		if actor.Owns(listing.OwnerUserID) {
			return domain.ErrNoSelfInterest
		}
		found, err := repos.Interests.Exists(ctx, actor.ID, listingID)
		if err != nil {
			return err
		}
		if found {
			return domain.ErrDuplicateInterest
		}

		interest = &domain.Interest{
			Message:            message,
			InterestedUserID:   actor.ID,
			InterestedUsername: actor.Username,
			ListingID:          listingID,
			ListingTitle:       listing.Title,
		}
		if err := repos.Interests.Create(ctx, interest); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrDuplicateInterest
			}
			return err
		}

		sender := actor.ID
		related := listing.ID
		delivery, err = uc.notifications.Create(ctx, repos, &domain.Notification{
			Message:          interestMessage(actor.Username, listing.Title, message),
			Type:             domain.NotificationInterest,
			RecipientUserID:  listing.OwnerUserID,
			SenderUserID:     &sender,
			RelatedListingID: &related,
		})
		return err
	})
	if err != nil {
		uc.logger.Warn("Interest rejected", zap.Int64("listing_id", listingID), zap.Int64("user_id", actor.ID), zap.Error(err))
		return nil, err
	}

	uc.metrics.InterestCreated()
	uc.notifications.Deliver(ctx, delivery)
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectInterestCreated, map[string]interface{}{
		"interest_id":        interest.ID,
		"listing_id":         listingID,
		"interested_user_id": actor.ID,
		"created_at":         interest.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("Interest recorded", zap.Int64("interest_id", interest.ID), zap.Int64("listing_id", listingID))
	return interest, nil
}

// Delete withdraws an interest. Allowed for the interested user and for admins.
// Notifications sent for it are kept.
func (uc *InterestUsecase) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	var listingID int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		interest, err := repos.Interests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Owns(interest.InterestedUserID) {
			return domain.ErrForbidden
		}
		listingID = interest.ListingID
		return repos.Interests.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectInterestDeleted, map[string]interface{}{
		"interest_id": id,
		"listing_id":  listingID,
	})
	uc.logger.Info("Interest deleted", zap.Int64("interest_id", id))
	return nil
}
