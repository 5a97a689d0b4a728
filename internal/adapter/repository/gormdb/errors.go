package gormdb

import (
	"errors"
	"fmt"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the domain taxonomy. It relies on
// gorm.Config.TranslateError so that unique violations surface as
// gorm.ErrDuplicatedKey for both postgres and sqlite.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrRepository, err)
	}
}

// affected turns a zero-row result of a targeted write into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
