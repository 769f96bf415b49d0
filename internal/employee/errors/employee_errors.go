package employeeerrors

import (
	"go-empower/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidPatch = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee update",
		http.StatusBadRequest,
	)
	ErrUnknownField = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown employee field",
		http.StatusBadRequest,
	)
	ErrStorageUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Storage unavailable",
		http.StatusInternalServerError,
	)
)
