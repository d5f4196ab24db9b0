package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the upstream conditions callers report differently.
var (
	ErrRateLimited      = errors.New("llm: rate limited")
	ErrCreditsExhausted = errors.New("llm: credits exhausted")
	ErrEmptyResponse    = errors.New("llm: empty response")
)

// UpstreamError is returned when the provider rejects or fails a request.
type UpstreamError struct {
	Provider   Provider
	StatusCode int // 0 when the provider reported no HTTP status
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Is maps 429 to ErrRateLimited and 402 to ErrCreditsExhausted.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrCreditsExhausted:
		return e.StatusCode == http.StatusPaymentRequired
	}
	return false
}
