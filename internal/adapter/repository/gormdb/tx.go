package gormdb

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
)

// Store hands out repositories bound to a single transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithinTx implements domain.Transactor. Errors returned by fn pass through
// unchanged; a failing commit is translated like any storage error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(ctx, bind(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return translate(err)
	}
	return err
}

func bind(tx *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Admins:        &AdminRepository{db: tx},
		Users:         &UserRepository{db: tx},
		Listings:      &ListingRepository{db: tx, dialect: tx.Dialector.Name()},
		Feedback:      &FeedbackRepository{db: tx},
		Interests:     &InterestRepository{db: tx},
		Notifications: &NotificationRepository{db: tx},
	}
}
