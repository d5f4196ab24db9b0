package types

import (
	"errors"
	"fmt"
)

// ErrInvalidField is matched by every *InvalidFieldError.
var ErrInvalidField = errors.New("invalid field")

// ErrCollaborator is matched by every *CollaboratorError.
var ErrCollaborator = errors.New("collaborator error")

// InvalidFieldError indicates an update addressed an undeclared field, or
// supplied a value of the wrong type for a declared one.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid field %q", e.Field)
}

// Is lets errors.Is(err, ErrInvalidField) match.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// CollaboratorError wraps a failure from an external collaborator
// (database, auth, language model, object storage). Message is safe to show
// to the user.
type CollaboratorError struct {
	Collaborator string
	Message      string
	Cause        error
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Collaborator, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Collaborator, e.Message)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrCollaborator) match.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}

// NewCollaboratorError wraps cause as a CollaboratorError. It returns nil
// when cause is nil so call sites can wrap unconditionally.
func NewCollaboratorError(collaborator, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CollaboratorError{Collaborator: collaborator, Message: message, Cause: cause}
}
