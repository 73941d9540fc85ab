package persistence

import (
	"errors"

	"github.com/sickfits/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM sentinel errors onto domain errors. The database
// is opened with TranslateError so driver specific unique violations arrive
// as gorm.ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
