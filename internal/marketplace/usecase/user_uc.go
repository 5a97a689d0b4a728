package usecase

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
)

// UserUsecase serves public profiles and the current-actor summary.
type UserUsecase struct {
	tx            domain.Transactor
	notifications *NotificationUsecase
	logger        *logger.Logger
}

func NewUserUsecase(tx domain.Transactor, notifications *NotificationUsecase, log *logger.Logger) *UserUsecase {
	return &UserUsecase{tx: tx, notifications: notifications, logger: log.Named("UserUsecase")}
}

// Profile returns a user's public profile with the rating over all their listings.
func (uc *UserUsecase) Profile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		p.User = *user
		summary, err := repos.Feedback.SummaryForOwner(ctx, userID)
		if err != nil {
			return err
		}
		p.AverageRating = summary.Average
		p.TotalFeedback = summary.Count
		p.Listings, err = repos.Listings.ListByOwner(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (uc *UserUsecase) CurrentActor(ctx context.Context, actor domain.Principal) (*domain.CurrentActor, error) {
	unread, err := uc.notifications.UnreadCount(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &domain.CurrentActor{Principal: actor, UnreadCount: unread}, nil
}
