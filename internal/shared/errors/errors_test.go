package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/be9expensphie/expensphie/internal/shared/errors"
)

func TestAppError_Error(t *testing.T) {
	ae := apperrors.BadRequest("invalid member id")
	assert.Equal(t, "BAD_REQUEST: invalid member id", ae.Error())

	wrapped := &apperrors.AppError{
		Code:    apperrors.ErrCodeInternal,
		Message: "query failed",
		Err:     errors.New("no rows"),
	}
	assert.Equal(t, "INTERNAL_ERROR: query failed: no rows", wrapped.Error())
	assert.ErrorIs(t, wrapped, wrapped.Err)
}

func TestGetAppError(t *testing.T) {
	ae := apperrors.BadRequest("invalid period")

	got := apperrors.GetAppError(fmt.Errorf("parsing query: %w", ae))
	require.NotNil(t, got)
	assert.Equal(t, apperrors.ErrCodeBadRequest, got.Code)
	assert.Equal(t, "invalid period", got.Message)

	assert.Nil(t, apperrors.GetAppError(errors.New("plain")))
	assert.Nil(t, apperrors.GetAppError(nil))
}
