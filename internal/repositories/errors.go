package repositories

import (
	"errors"
	"fmt"

	"sosmed/internal/apperror"

	"gorm.io/gorm"
)

// translate maps gorm errors to the store's error kinds. Errors already
// carrying a kind (from model hooks) pass through untouched.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case apperror.KindOf(err) != apperror.KindInternal:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.Wrap(apperror.KindNotFound, err, "%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Wrap(apperror.KindDuplicateKey, err, "%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Wrap(apperror.KindNotFound, err, "%s references a missing entity", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
