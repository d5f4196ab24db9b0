// Package export captures a mounted resume document as an image and
// packages it as a single-page A4 PDF.
package export

import (
	"errors"
	"fmt"
)

// ErrRenderTargetUnavailable is matched by every *RenderTargetUnavailableError.
var ErrRenderTargetUnavailable = errors.New("render target unavailable")

// RenderTargetUnavailableError indicates the document could not be captured:
// the handle was never mounted, the element had no size, or the browser
// could not produce an image. Callers may retry.
type RenderTargetUnavailableError struct {
	HandleID string
	Reason   string
	Cause    error
}

func (e *RenderTargetUnavailableError) Error() string {
	msg := fmt.Sprintf("render target %q unavailable: %s", e.HandleID, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderTargetUnavailableError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrRenderTargetUnavailable) match.
func (e *RenderTargetUnavailableError) Is(target error) bool {
	return target == ErrRenderTargetUnavailable
}
