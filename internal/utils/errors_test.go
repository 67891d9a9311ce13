package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewUnauthenticatedError(), http.StatusUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewNotFoundError("Idea"), http.StatusNotFound},
		{NewAppError(ErrConflict, "dup", nil), http.StatusConflict},
		{NewAppError(ErrGateway, "down", nil), http.StatusBadGateway},
		{NewAppError(ErrVoteWriteFailed, "x", nil), http.StatusInternalServerError},
		{NewAppError(ErrCommentWriteFailed, "x", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestErrorCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewNotFoundError("Comment"))
	assert.Equal(t, ErrNotFound, ErrorCode(err))
	assert.True(t, IsErrorCode(err, ErrNotFound))
	assert.False(t, IsErrorCode(nil, ErrNotFound))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
}

func TestAppErrorMessages(t *testing.T) {
	origin := errors.New("pq: connection refused")
	err := NewAppError(ErrVoteWriteFailed, "Failed to record vote", origin)

	assert.Equal(t, "Failed to record vote: pq: connection refused", err.Error())
	assert.ErrorIs(t, err, origin)
	assert.Equal(t, "Failed to record vote", PublicMessage(err))
	assert.Equal(t, "Internal server error", PublicMessage(origin))
	assert.Equal(t, "Comment not found", NewNotFoundError("Comment").Error())
}
