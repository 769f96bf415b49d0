package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"go-empower/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type createRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

func TestToHTTP(t *testing.T) {
	t.Run("app error passes through", func(t *testing.T) {
		err := apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound).
			WithCause(errors.New("record not found"))

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Equal(t, "Employee not found", got.Message)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()

	t.Run("required", func(t *testing.T) {
		err := v.Struct(createRequest{Email: "a@example.com"})

		got := apperror.ToHTTP(apperror.MapValidationError(err))

		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "First Name is required", got.Message)
	})

	t.Run("invalid", func(t *testing.T) {
		err := v.Struct(createRequest{FirstName: "Jane", Email: "nope"})

		got := apperror.ToHTTP(apperror.MapValidationError(err))

		assert.Equal(t, apperror.CodeInvalidInput, got.Code)
		assert.Equal(t, "Email is invalid", got.Message)
	})

	t.Run("non validation error", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.MapValidationError(errors.New("unexpected EOF")))

		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "Invalid input", got.Message)
	})
}
