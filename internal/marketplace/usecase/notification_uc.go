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

// NotificationUsecase records notifications inside callers' transactions and
// serves the recipient's inbox.
type NotificationUsecase struct {
	tx        domain.Transactor
	publisher domain.EventPublisher
	mailer    domain.NotificationMailer
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewNotificationUsecase(tx domain.Transactor, pub domain.EventPublisher, mailer domain.NotificationMailer, m *metrics.MetricsManager, log *logger.Logger) *NotificationUsecase {
	if mailer == nil {
		mailer = domain.NopMailer{}
	}
	return &NotificationUsecase{
		tx:        tx,
		publisher: orNop(pub),
		mailer:    mailer,
		metrics:   m,
		logger:    log.Named("NotificationUsecase"),
	}
}

// Delivery is a committed notification waiting for its side effects.
type Delivery struct {
	Notification   domain.Notification
	RecipientEmail string
}

// Create inserts a notification using the caller's transaction-bound
// repositories. Call Deliver with the result once the transaction commits.
func (uc *NotificationUsecase) Create(ctx context.Context, repos domain.Repositories, n *domain.Notification) (Delivery, error) {
	if !n.Type.Valid() {
		return Delivery{}, fmt.Errorf("%w: unknown notification type %q", domain.ErrInvalidInput, n.Type)
	}
	if strings.TrimSpace(n.Message) == "" {
		return Delivery{}, fmt.Errorf("%w: notification message is empty", domain.ErrInvalidInput)
	}
	recipient, err := repos.Users.GetByID(ctx, n.RecipientUserID)
	if err != nil {
		return Delivery{}, err
	}
	n.IsRead = false
	if err := repos.Notifications.Create(ctx, n); err != nil {
		return Delivery{}, err
	}
	return Delivery{Notification: *n, RecipientEmail: recipient.Email}, nil
}

// Deliver runs the best-effort side effects of a committed notification.
func (uc *NotificationUsecase) Deliver(ctx context.Context, d Delivery) {
	n := d.Notification
	uc.metrics.NotificationCreated(string(n.Type))
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectNotificationCreated, map[string]interface{}{
		"notification_id":    n.ID,
		"recipient_user_id":  n.RecipientUserID,
		"sender_user_id":     n.SenderUserID,
		"related_listing_id": n.RelatedListingID,
		"type":               n.Type,
		"created_at":         n.CreatedAt.Format(time.RFC3339Nano),
	})
	if d.RecipientEmail == "" {
		return
	}
	if err := uc.mailer.SendNotification(ctx, d.RecipientEmail, n); err != nil {
		uc.logger.Warn("Failed to e-mail notification", zap.Int64("notification_id", n.ID), zap.Error(err))
	}
}

// List returns the actor's notifications, newest first.
func (uc *NotificationUsecase) List(ctx context.Context, actor domain.Principal) ([]domain.Notification, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var out []domain.Notification
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = repos.Notifications.ListByRecipient(ctx, actor.ID)
		return err
	})
	return out, err
}

// UnreadCount is always zero for admins, who have no inbox.
func (uc *NotificationUsecase) UnreadCount(ctx context.Context, actor domain.Principal) (int64, error) {
	if !actor.IsUser() {
		return 0, nil
	}
	var count int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		count, err = repos.Notifications.CountUnread(ctx, actor.ID)
		return err
	})
	return count, err
}

// MarkRead marks one notification read. Only the recipient may do this.
// The returned notification carries the related listing id for navigation.
func (uc *NotificationUsecase) MarkRead(ctx context.Context, actor domain.Principal, id int64) (*domain.Notification, error) {
	var n *domain.Notification
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		if n, err = repos.Notifications.GetByID(ctx, id); err != nil {
			return err
		}
		if !actor.Owns(n.RecipientUserID) {
			return domain.ErrForbidden
		}
		if err := repos.Notifications.MarkRead(ctx, id); err != nil {
			return err
		}
		n.IsRead = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, actor domain.Principal) (int64, error) {
	if err := requireUser(actor); err != nil {
		return 0, err
	}
	var count int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		count, err = repos.Notifications.MarkAllRead(ctx, actor.ID)
		return err
	})
	if err == nil {
		uc.logger.Info("Notifications marked read", zap.Int64("user_id", actor.ID), zap.Int64("count", count))
	}
	return count, err
}

// Delete removes a notification. Allowed for the recipient and for admins.
func (uc *NotificationUsecase) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		n, err := repos.Notifications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Owns(n.RecipientUserID) {
			return domain.ErrForbidden
		}
		return repos.Notifications.Delete(ctx, id)
	})
}

func (uc *NotificationUsecase) ClearAll(ctx context.Context, actor domain.Principal) (int64, error) {
	if err := requireUser(actor); err != nil {
		return 0, err
	}
	var count int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		count, err = repos.Notifications.DeleteByRecipient(ctx, actor.ID)
		return err
	})
	if err == nil {
		uc.logger.Info("Notifications cleared", zap.Int64("user_id", actor.ID), zap.Int64("count", count))
	}
	return count, err
}

func interestMessage(username, title string, message *string) string {
	text := fmt.Sprintf("🔔 %s is interested in your listing: \"%s\"", username, title)
	if message != nil {
		text += fmt.Sprintf("\n\nMessage: \"%s\"", *message)
	}
	return text
}

func feedbackMessage(username, title string, rating int, comment *string) string {
	text := fmt.Sprintf("📝 %s left a %d-star review on your listing: \"%s\"\n\nRating: %s",
		username, rating, title, strings.Repeat("⭐", rating))
	if comment != nil {
		text += fmt.Sprintf("\nComment: \"%s\"", *comment)
	}
	return text
}
