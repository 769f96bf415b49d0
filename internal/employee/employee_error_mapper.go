package employee

import (
	"errors"

	employeeerrors "go-empower/internal/employee/errors"
	"go-empower/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalid_text_representation: an id that is not a uuid never matches a row.
const pgInvalidTextRepresentation = "22P02"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var patchErr *InvalidPatchError
	if errors.As(err, &patchErr) {
		return employeeerrors.ErrInvalidPatch.
			WithDetails(map[string]string{"field": patchErr.Field, "reason": patchErr.Reason}).
			WithCause(err)
	}

	var fieldErr *UnknownFieldError
	if errors.As(err, &fieldErr) {
		return employeeerrors.ErrUnknownField.
			WithDetails(map[string]string{"field": fieldErr.Field}).
			WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return employeeerrors.ErrEmployeeNotFound
	}

	return employeeerrors.ErrStorageUnavailable.WithCause(err)
}
