package gormdb

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterestRepository struct {
	db *gorm.DB
}

func (r *InterestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	m := interestModel{
		Message:          interest.Message,
		InterestedUserID: interest.InterestedUserID,
		ListingID:        interest.ListingID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err)
	}
	interest.ID = m.ID
	interest.CreatedAt = m.CreatedAt
	return nil
}

func (r *InterestRepository) GetByID(ctx context.Context, id int64) (*domain.Interest, error) {
	var m interestModel
	if err := r.db.WithContext(ctx).Preload("InterestedUser").Preload("Listing").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	i := m.toDomain()
	return &i, nil
}

func (r *InterestRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&interestModel{}, id))
}

func (r *InterestRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Interest, error) {
	return r.find(r.db.WithContext(ctx).Where("listing_id = ?", listingID))
}

func (r *InterestRepository) Exists(ctx context.Context, userID, listingID int64) (bool, error) {
	return exists(r.db.WithContext(ctx), &interestModel{}, "interested_user_id = ? AND listing_id = ?", userID, listingID)
}

func (r *InterestRepository) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&interestModel{}).Where("listing_id = ?", listingID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *InterestRepository) ListRecent(ctx context.Context, limit int) ([]domain.Interest, error) {
	return r.find(r.db.WithContext(ctx).Limit(limit))
}

func (r *InterestRepository) DeleteByListing(ctx context.Context, listingID int64) error {
	return translate(r.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&interestModel{}).Error)
}

func (r *InterestRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return translate(r.db.WithContext(ctx).Where("interested_user_id = ?", userID).Delete(&interestModel{}).Error)
}

func (r *InterestRepository) DeleteByListingOwner(ctx context.Context, ownerUserID int64) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&listingModel{}).Select("id").Where("owner_user_id = ?", ownerUserID)
	return translate(db.Where("listing_id IN (?)", owned).Delete(&interestModel{}).Error)
}

func (r *InterestRepository) find(q *gorm.DB) ([]domain.Interest, error) {
	var rows []interestModel
	if err := q.Preload("InterestedUser").Preload("Listing").Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Interest, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
