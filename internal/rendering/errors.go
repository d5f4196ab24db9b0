package rendering

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is matched by every *UnknownTemplateError.
var ErrUnknownTemplate = errors.New("unknown template")

// UnknownTemplateError indicates a registry lookup for an id that is not registered.
type UnknownTemplateError struct {
	ID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template: %q", e.ID)
}

// Is lets errors.Is(err, ErrUnknownTemplate) match.
func (e *UnknownTemplateError) Is(target error) bool {
	return target == ErrUnknownTemplate
}

// RenderError represents a failure to serialize a document.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
