package gormdb

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		Message:          n.Message,
		NotificationType: string(n.Type),
		IsRead:           n.IsRead,
		RecipientUserID:  n.RecipientUserID,
		SenderUserID:     n.SenderUserID,
		RelatedListingID: n.RelatedListingID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err)
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var m notificationModel
	if err := r.db.WithContext(ctx).Preload("Sender").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	n := m.toDomain()
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientUserID int64) ([]domain.Notification, error) {
	return r.find(r.db.WithContext(ctx).Where("recipient_user_id = ?", recipientUserID))
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientUserID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_user_id = ? AND is_read = ?", recipientUserID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Model(&notificationModel{}).Where("id = ?", id).Update("is_read", true))
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientUserID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_user_id = ? AND is_read = ?", recipientUserID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&notificationModel{}, id))
}

func (r *NotificationRepository) DeleteByRecipient(ctx context.Context, recipientUserID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("recipient_user_id = ?", recipientUserID).Delete(&notificationModel{})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	return r.find(r.db.WithContext(ctx).Limit(limit))
}

func (r *NotificationRepository) DeleteByListing(ctx context.Context, listingID int64) error {
	return translate(r.db.WithContext(ctx).Where("related_listing_id = ?", listingID).Delete(&notificationModel{}).Error)
}

func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return translate(r.db.WithContext(ctx).
		Where("recipient_user_id = ? OR sender_user_id = ?", userID, userID).
		Delete(&notificationModel{}).Error)
}

func (r *NotificationRepository) DeleteByListingOwner(ctx context.Context, ownerUserID int64) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&listingModel{}).Select("id").Where("owner_user_id = ?", ownerUserID)
	return translate(db.Where("related_listing_id IN (?)", owned).Delete(&notificationModel{}).Error)
}

func (r *NotificationRepository) find(q *gorm.DB) ([]domain.Notification, error) {
	var rows []notificationModel
	if err := q.Preload("Sender").Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
