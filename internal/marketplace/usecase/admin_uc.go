package usecase

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"go.uber.org/zap"
)

// AdminUsecase exposes moderation and overview operations. Every method
// requires an admin principal.
type AdminUsecase struct {
	tx        domain.Transactor
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewAdminUsecase(tx domain.Transactor, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *AdminUsecase {
	return &AdminUsecase{
		tx:        tx,
		publisher: orNop(pub),
		metrics:   m,
		logger:    log.Named("AdminUsecase"),
	}
}

// read runs fn in a transaction after the admin check.
func (uc *AdminUsecase) read(ctx context.Context, actor domain.Principal, fn func(ctx context.Context, repos domain.Repositories) error) error {
	if err := requireAdmin(actor); err != nil {
		uc.logger.Warn("Admin operation refused", zap.String("kind", string(actor.Kind)), zap.Int64("id", actor.ID))
		return err
	}
	return uc.tx.WithinTx(ctx, fn)
}

func (uc *AdminUsecase) ListUsers(ctx context.Context, actor domain.Principal) (out []domain.User, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Users.List(ctx)
		return err
	})
	return out, err
}

func (uc *AdminUsecase) ListListings(ctx context.Context, actor domain.Principal) (out []domain.Listing, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Listings.ListAll(ctx)
		return err
	})
	return out, err
}

func (uc *AdminUsecase) ListAdmins(ctx context.Context, actor domain.Principal) (out []domain.Admin, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Admins.List(ctx)
		return err
	})
	return out, err
}

// ListFeedback returns all feedback, newest first.
func (uc *AdminUsecase) ListFeedback(ctx context.Context, actor domain.Principal) (out []domain.Feedback, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Feedback.ListAll(ctx)
		return err
	})
	return out, err
}

func (uc *AdminUsecase) RecentInterests(ctx context.Context, actor domain.Principal) (out []domain.Interest, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Interests.ListRecent(ctx, AdminRecentInterestLimit)
		return err
	})
	return out, err
}

func (uc *AdminUsecase) RecentNotifications(ctx context.Context, actor domain.Principal) (out []domain.Notification, err error) {
	err = uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		out, err = repos.Notifications.ListRecent(ctx, AdminRecentNotifyLimit)
		return err
	})
	return out, err
}

// Dashboard loads the whole admin overview from one transaction.
func (uc *AdminUsecase) Dashboard(ctx context.Context, actor domain.Principal) (*domain.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "AdminUsecase.Dashboard")
	defer span.End()

	var d domain.Dashboard
	err := uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		if d.Users, err = repos.Users.List(ctx); err != nil {
			return err
		}
		if d.Listings, err = repos.Listings.ListAll(ctx); err != nil {
			return err
		}
		if d.Admins, err = repos.Admins.List(ctx); err != nil {
			return err
		}
		if d.Feedback, err = repos.Feedback.ListAll(ctx); err != nil {
			return err
		}
		if d.RecentInterests, err = repos.Interests.ListRecent(ctx, AdminRecentInterestLimit); err != nil {
			return err
		}
		d.RecentNotifications, err = repos.Notifications.ListRecent(ctx, AdminRecentNotifyLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteUser removes a user together with everything that references the
// user or the user's listings.
func (uc *AdminUsecase) DeleteUser(ctx context.Context, actor domain.Principal, userID int64) error {
	ctx, span := tracer.Start(ctx, "AdminUsecase.DeleteUser")
	defer span.End()

	var username string
	err := uc.read(ctx, actor, func(ctx context.Context, repos domain.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		username = user.Username

		steps := []func(context.Context, int64) error{
			repos.Notifications.DeleteByUser,
			repos.Notifications.DeleteByListingOwner,
			repos.Interests.DeleteByUser,
			repos.Interests.DeleteByListingOwner,
			repos.Feedback.DeleteByReviewer,
			repos.Feedback.DeleteByListingOwner,
			repos.Listings.DeleteByOwner,
			repos.Users.Delete,
		}
		for _, step := range steps {
			if err := step(ctx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("User delete failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	uc.metrics.UserDeleted()
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectUserDeleted, map[string]interface{}{
		"user_id":  userID,
		"admin_id": actor.ID,
	})
	uc.logger.Info("User deleted", zap.Int64("user_id", userID), zap.String("username", username), zap.Int64("admin_id", actor.ID))
	return nil
}
