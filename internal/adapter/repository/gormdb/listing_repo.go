package gormdb

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const newestFirst = "created_at DESC, id DESC"

type ListingRepository struct {
	db      *gorm.DB
	dialect string
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	m := listingFromDomain(listing)
	m.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translate(err)
	}
	listing.ID = m.ID
	listing.CreatedAt = m.CreatedAt
	listing.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	if err := r.db.WithContext(ctx).Preload("Owner").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	l := m.toDomain()
	return &l, nil
}

// Update writes every editable column, including optional ones set to nil.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	res := r.db.WithContext(ctx).Model(&listingModel{ID: listing.ID}).Updates(map[string]interface{}{
		"title":        listing.Title,
		"category":     listing.Category,
		"listing_type": listing.ListingType,
		"description":  listing.Description,
		"location":     listing.Location,
		"tags":         listing.Tags,
		"updated_at":   listing.UpdatedAt,
	})
	return affected(res)
}

func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&listingModel{}, id))
}

func (r *ListingRepository) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&listingModel{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ListingType != "" {
		q = q.Where("listing_type = ?", filter.ListingType)
	}
	if filter.Search != "" {
		title := containsExpr(r.dialect, "title", filter.CaseInsensitive)
		description := containsExpr(r.dialect, "description", filter.CaseInsensitive)
		q = q.Where("("+title+" OR "+description+")", filter.Search, filter.Search)
	}
	return r.find(q)
}

func (r *ListingRepository) Recent(ctx context.Context, limit int) ([]domain.Listing, error) {
	return r.find(r.db.WithContext(ctx).Limit(limit))
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]domain.Listing, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID))
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]domain.Listing, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *ListingRepository) DeleteByOwner(ctx context.Context, ownerUserID int64) error {
	return translate(r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).Delete(&listingModel{}).Error)
}

func (r *ListingRepository) find(q *gorm.DB) ([]domain.Listing, error) {
	var rows []listingModel
	if err := q.Preload("Owner").Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Listing, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// containsExpr builds a substring predicate with one placeholder.
// strpos and instr compare bytes, so the default match is case sensitive.
func containsExpr(dialect, column string, caseInsensitive bool) string {
	fn := "instr"
	if dialect == DriverPostgres {
		fn = "strpos"
	}
	if caseInsensitive {
		return fn + "(LOWER(" + column + "), LOWER(?)) > 0"
	}
	return fn + "(" + column + ", ?) > 0"
}
