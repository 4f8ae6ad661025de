// Package dberr maps GORM failures onto the marketplace error kinds so that
// callers above the repositories never see driver errors for expected cases.
package dberr

import (
	"errors"
	"fmt"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// Translate classifies the error of a single-row operation. The connection
// must be opened with gorm.Config{TranslateError: true} for unique violations
// to surface as gorm.ErrDuplicatedKey.
func Translate(err error, entity string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewConflictErrorWithCause(entity, fmt.Sprintf("%v already exists", id), err)
	default:
		return err
	}
}

// CheckVersion inspects the result of a compare-and-swap update. No affected
// row means another transaction changed or removed the row first.
func CheckVersion(result *gorm.DB, entity string, id any, version int64) error {
	if result.Error != nil {
		return Translate(result.Error, entity, id)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError(entity, fmt.Sprintf("%v was modified concurrently (expected version %d)", id, version))
	}
	return nil
}
