package gormdb

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository struct {
	db *gorm.DB
}

type ratingRow struct {
	Avg *float64
	Cnt int64
}

func (row ratingRow) summary() domain.RatingSummary {
	s := domain.RatingSummary{Count: row.Cnt}
	if row.Avg != nil && row.Cnt > 0 {
		avg := domain.RoundRating(*row.Avg)
		s.Average = &avg
	}
	return s
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	m := feedbackModel{
		Rating:         feedback.Rating,
		Comment:        feedback.Comment,
		ReviewerUserID: feedback.ReviewerUserID,
		ListingID:      feedback.ListingID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err)
	}
	feedback.ID = m.ID
	feedback.CreatedAt = m.CreatedAt
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	var m feedbackModel
	if err := r.db.WithContext(ctx).Preload("Reviewer").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	f := m.toDomain()
	return &f, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&feedbackModel{}, id))
}

func (r *FeedbackRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Feedback, error) {
	return r.find(r.db.WithContext(ctx).Where("listing_id = ?", listingID))
}

func (r *FeedbackRepository) ListAll(ctx context.Context) ([]domain.Feedback, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *FeedbackRepository) ExistsForReviewer(ctx context.Context, reviewerUserID, listingID int64) (bool, error) {
	return exists(r.db.WithContext(ctx), &feedbackModel{}, "reviewer_user_id = ? AND listing_id = ?", reviewerUserID, listingID)
}

func (r *FeedbackRepository) SummaryForListing(ctx context.Context, listingID int64) (domain.RatingSummary, error) {
	var row ratingRow
	err := r.db.WithContext(ctx).Model(&feedbackModel{}).
		Select("AVG(rating) AS avg, COUNT(*) AS cnt").
		Where("listing_id = ?", listingID).
		Scan(&row).Error
	if err != nil {
		return domain.RatingSummary{}, translate(err)
	}
	return row.summary(), nil
}

func (r *FeedbackRepository) SummaryForOwner(ctx context.Context, ownerUserID int64) (domain.RatingSummary, error) {
	var row ratingRow
	err := r.db.WithContext(ctx).Model(&feedbackModel{}).
		Select("AVG(feedbacks.rating) AS avg, COUNT(feedbacks.id) AS cnt").
		Joins("JOIN listings ON listings.id = feedbacks.listing_id").
		Where("listings.owner_user_id = ?", ownerUserID).
		Scan(&row).Error
	if err != nil {
		return domain.RatingSummary{}, translate(err)
	}
	return row.summary(), nil
}

func (r *FeedbackRepository) DeleteByListing(ctx context.Context, listingID int64) error {
	return translate(r.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&feedbackModel{}).Error)
}

func (r *FeedbackRepository) DeleteByReviewer(ctx context.Context, reviewerUserID int64) error {
	return translate(r.db.WithContext(ctx).Where("reviewer_user_id = ?", reviewerUserID).Delete(&feedbackModel{}).Error)
}

func (r *FeedbackRepository) DeleteByListingOwner(ctx context.Context, ownerUserID int64) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&listingModel{}).Select("id").Where("owner_user_id = ?", ownerUserID)
	return translate(db.Where("listing_id IN (?)", owned).Delete(&feedbackModel{}).Error)
}

func (r *FeedbackRepository) find(q *gorm.DB) ([]domain.Feedback, error) {
	var rows []feedbackModel
	if err := q.Preload("Reviewer").Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Feedback, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
