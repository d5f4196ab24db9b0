package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/assist"
	"github.com/jonathan/oneclickresume/internal/builder"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/export"
	"github.com/jonathan/oneclickresume/internal/llm"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/schemas"
	"github.com/jonathan/oneclickresume/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a resume, session or portfolio does not exist or is
// not visible to the caller. Records owned by someone else are reported as
// not found.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// ErrNoResumeData is returned by preview and export when the resume has
// neither a name nor an email yet.
type ErrNoResumeData struct{}

func (e *ErrNoResumeData) Error() string {
	return "No resume data. Fill in your details first."
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		badCreds    *ErrInvalidCredentials
		mismatch    *ErrPasswordMismatch
		noUser      *ErrUserNotFound
		invalid     *ErrValidation
		notFound    *ErrNotFound
		blank       *ErrNoResumeData
		schemaErr   *schemas.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists), errors.Is(err, db.ErrEmailTaken):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &notFound),
		errors.Is(err, builder.ErrSessionNotFound), errors.Is(err, db.ErrResumeNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &blank):
		return http.StatusUnprocessableEntity

	// Resume editing
	case errors.Is(err, types.ErrInvalidField),
		errors.Is(err, rendering.ErrUnknownTemplate),
		errors.Is(err, builder.ErrInvalidStep),
		errors.Is(err, builder.ErrNotListField),
		errors.Is(err, builder.ErrRowOutOfRange),
		errors.Is(err, assist.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, builder.ErrFieldNotInStep),
		errors.Is(err, builder.ErrLastRow),
		errors.Is(err, db.ErrSlugTaken):
		return http.StatusConflict

	// Collaborators
	case errors.Is(err, export.ErrRenderTargetUnavailable), errors.Is(err, assist.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrCreditsExhausted):
		return http.StatusPaymentRequired
	case errors.Is(err, types.ErrCollaborator):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text shown to API clients for err. Collaborator
// failures expose only their user-facing message and unexpected errors are
// not described at all.
func ErrorMessage(err error) string {
	var ce *types.CollaboratorError
	if errors.As(err, &ce) {
		return ce.Message
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// Retryable reports whether the client may retry the same request later.
func Retryable(err error) bool {
	switch HTTPStatus(err) {
	case http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusBadGateway:
		return true
	}
	return false
}
