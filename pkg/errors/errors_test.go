package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrInternal("database unavailable").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database unavailable: connection refused", err.Error())
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestAppError_CopiesOnWrite(t *testing.T) {
	base := ErrNotFound("user not found")
	withMeta := base.WithMetadata("user_id", 7)

	assert.Empty(t, base.Metadata)
	assert.Equal(t, 7, withMeta.Metadata["user_id"])
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", ErrConflict("username already exists"))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeConflict, appErr.Code)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.True(t, stderrors.Is(wrapped, ErrConflict("")))
}

func TestErrRateLimited(t *testing.T) {
	retry := 120
	err := ErrRateLimited("login", &retry, "too many attempts")

	assert.True(t, IsRateLimitError(err))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(err))
	assert.Equal(t, "login", err.Metadata["action"])
	assert.Equal(t, 120, err.Metadata["retry_after"])
	assert.True(t, ShouldLogError(err))
}

func TestHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))
	assert.False(t, ShouldLogError(ErrInvalidRequest("bad")))
}
