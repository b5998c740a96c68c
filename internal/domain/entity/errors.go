package entity

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard domain errors
var (
	ErrMissingAPIKey    = errors.New("api key is not configured")
	ErrEmptyDream       = errors.New("dream description is empty")
	ErrNotADream        = errors.New("input does not describe a dream")
	ErrUpstreamBusy     = errors.New("rate limit retries exhausted")
	ErrGenerationFailed = errors.New("generation request failed")
	ErrEmptyResponse    = fmt.Errorf("%w: model returned no text", ErrGenerationFailed)
)

// UpstreamError is a failure reported by the generation service itself.
type UpstreamError struct {
	Code    int
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("upstream error %d (%s): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
}

// IsRateLimit reports whether the upstream rejected the call for exceeding its quota.
func (e *UpstreamError) IsRateLimit() bool {
	return e.Code == http.StatusTooManyRequests
}
