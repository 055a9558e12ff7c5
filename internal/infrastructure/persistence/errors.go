package persistence

import (
	"errors"

	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps store-level constraint failures onto domain errors so
// the application layer never sees driver types. Relies on GORM's error
// translation (TranslateError) being enabled on the connection.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.ErrConstraintViolation
	}
	return err
}
