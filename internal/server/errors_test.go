package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/oneclickresume/internal/assist"
	"github.com/jonathan/oneclickresume/internal/builder"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/export"
	"github.com/jonathan/oneclickresume/internal/llm"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"email taken in db", fmt.Errorf("create: %w", db.ErrEmailTaken), http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"not found", &ErrNotFound{Resource: "resume"}, http.StatusNotFound},
		{"session not found", builder.ErrSessionNotFound, http.StatusNotFound},
		{"validation", &ErrValidation{Message: "bad"}, http.StatusBadRequest},
		{"blank resume", &ErrNoResumeData{}, http.StatusUnprocessableEntity},
		{"resume vanished", fmt.Errorf("update: %w", db.ErrResumeNotFound), http.StatusNotFound},
		{"invalid field", &types.InvalidFieldError{Field: "nickname"}, http.StatusBadRequest},
		{"unknown template", &rendering.UnknownTemplateError{ID: "fancy"}, http.StatusBadRequest},
		{"invalid step", fmt.Errorf("%w: 9", builder.ErrInvalidStep), http.StatusBadRequest},
		{"invalid action", assist.ErrInvalidAction, http.StatusBadRequest},
		{"field not in step", builder.ErrFieldNotInStep, http.StatusConflict},
		{"last row", builder.ErrLastRow, http.StatusConflict},
		{"slug taken", db.ErrSlugTaken, http.StatusConflict},
		{"render target", &export.RenderTargetUnavailableError{HandleID: "x", Reason: "gone"}, http.StatusServiceUnavailable},
		{"assist off", assist.ErrNotConfigured, http.StatusServiceUnavailable},
		{"collaborator", types.NewCollaboratorError("database", "oops", errors.New("down")), http.StatusBadGateway},
		{"rate limited upstream", types.NewCollaboratorError("assist", "slow down", &llm.UpstreamError{StatusCode: 429}), http.StatusTooManyRequests},
		{"credits upstream", types.NewCollaboratorError("assist", "pay", &llm.UpstreamError{StatusCode: 402}), http.StatusPaymentRequired},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
		{"canceled", context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "could not save", ErrorMessage(types.NewCollaboratorError("database", "could not save", errors.New("pq: secret detail"))))
	assert.Equal(t, "Internal server error", ErrorMessage(errors.New("nil pointer somewhere")))
	assert.Equal(t, "resume not found", ErrorMessage(&ErrNotFound{Resource: "resume"}))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&export.RenderTargetUnavailableError{HandleID: "x"}))
	assert.True(t, Retryable(types.NewCollaboratorError("database", "x", errors.New("down"))))
	assert.False(t, Retryable(&types.InvalidFieldError{Field: "x"}))
	assert.False(t, Retryable(errors.New("boom")))
}
