package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewExternalError("agents", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIsType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("query handler failed: %w", NewNotFoundError("thread"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestStatusOf_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(stderrors.New("boom")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	wrapped := Wrap(NewValidationError("id is required"), "bookmark")
	assert.True(t, IsValidation(wrapped))
	assert.Equal(t, "bookmark: id is required", GetAppError(wrapped).Message)

	plain := Wrap(stderrors.New("disk"), "save")
	assert.True(t, IsType(plain, ErrorTypeInternal))
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error keeps status and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/threads/x", nil)

		h.Handle(w, r, NewNotFoundError("thread"))

		require.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "NOT_FOUND", body.Type)
		assert.Equal(t, "thread not found", body.Message)
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		h.Handle(w, r, stderrors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})
}

func TestErrorHandler_Middleware_RecoversPanic(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "test panic")
}

func TestStatusToErrorType(t *testing.T) {
	assert.Equal(t, "RATE_LIMIT", StatusToErrorType(http.StatusTooManyRequests))
	assert.Equal(t, "EXTERNAL", StatusToErrorType(http.StatusBadGateway))
	assert.Equal(t, "INTERNAL", StatusToErrorType(http.StatusTeapot))
}
