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

// FeedbackUsecase handles ratings left on listings.
type FeedbackUsecase struct {
	tx            domain.Transactor
	notifications *NotificationUsecase
	publisher     domain.EventPublisher
	metrics       *metrics.MetricsManager
	logger        *logger.Logger
}

func NewFeedbackUsecase(tx domain.Transactor, notifications *NotificationUsecase, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *FeedbackUsecase {
	return &FeedbackUsecase{
		tx:            tx,
		notifications: notifications,
		publisher:     orNop(pub),
		metrics:       m,
		logger:        log.Named("FeedbackUsecase"),
	}
}

// Add stores a rating and notifies the owner. Once a listing has any feedback
// it can no longer be edited.
func (uc *FeedbackUsecase) Add(ctx context.Context, actor domain.Principal, listingID int64, rating int, comment *string) (*domain.Feedback, error) {
	ctx, span := tracer.Start(ctx, "FeedbackUsecase.Add")
	defer span.End()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	comment = domain.OptionalText(comment)

	var (
		feedback *domain.Feedback
		delivery Delivery
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.GetByID(ctx, listingID)
		if err != nil {
			return err
		}
		if actor.Owns(listing.OwnerUserID) {
			return domain.ErrNoSelfReview
		}
		found, err := repos.Feedback.ExistsForReviewer(ctx, actor.ID, listingID)
		if err != nil {
			return err
		}
		if found {
			return domain.ErrDuplicateFeedback
		}
		if !domain.ValidRating(rating) {
			return domain.ErrInvalidRating
		}

		feedback = &domain.Feedback{
			Rating:           rating,
			Comment:          comment,
			ReviewerUserID:   actor.ID,
			ReviewerUsername: actor.Username,
			ListingID:        listingID,
		}
		if err := repos.Feedback.Create(ctx, feedback); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrDuplicateFeedback
			}
			return err
		}

		sender := actor.ID
		related := listing.ID
		delivery, err = uc.notifications.Create(ctx, repos, &domain.Notification{
			Message:          feedbackMessage(actor.Username, listing.Title, rating, comment),
			Type:             domain.NotificationFeedback,
			RecipientUserID:  listing.OwnerUserID,
			SenderUserID:     &sender,
			RelatedListingID: &related,
		})
		return err
	})
	if err != nil {
		uc.logger.Warn("Feedback rejected", zap.Int64("listing_id", listingID), zap.Int64("user_id", actor.ID), zap.Error(err))
		return nil, err
	}

	uc.metrics.FeedbackCreated()
	uc.notifications.Deliver(ctx, delivery)
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectFeedbackCreated, map[string]interface{}{
		"feedback_id":      feedback.ID,
		"listing_id":       listingID,
		"reviewer_user_id": actor.ID,
		"rating":           rating,
		"created_at":       feedback.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("Feedback recorded", zap.Int64("feedback_id", feedback.ID), zap.Int("rating", rating))
	return feedback, nil
}

// Delete removes feedback. Allowed for the reviewer and for admins.
// Notifications sent for it are kept.
func (uc *FeedbackUsecase) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	var listingID int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		feedback, err := repos.Feedback.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Owns(feedback.ReviewerUserID) {
			return domain.ErrForbidden
		}
		listingID = feedback.ListingID
		return repos.Feedback.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectFeedbackDeleted, map[string]interface{}{
		"feedback_id": id,
		"listing_id":  listingID,
	})
	uc.logger.Info("Feedback deleted", zap.Int64("feedback_id", id))
	return nil
}
