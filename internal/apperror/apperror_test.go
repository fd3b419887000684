package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, New("bad").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("gone").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("no").Status)
	assert.Equal(t, http.StatusConflict, WithStatus(http.StatusConflict, "dup").Status)
}

func TestAsFindsWrappedError(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("store: %w", Wrap(cause, http.StatusBadGateway, "upload failed"))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "upload failed", appErr.Error())
	assert.ErrorIs(t, err, cause)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationUsesFirstMessage(t *testing.T) {
	err := Validation([]FieldError{
		{Field: "email", Message: "email is a required field"},
		{Field: "password", Message: "password is a required field"},
	})
	assert.Equal(t, "email is a required field", err.Message)
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "Validation failed", Validation(nil).Message)
}
