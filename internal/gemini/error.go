// Package gemini implements the two generation transports: a direct client
// for the Google generative language API and a client for the same-origin
// relay that injects the credential server-side.
package gemini

import (
	"errors"
	"fmt"
	"net/http"
)

// GenerationError is returned for any non-success response or transport
// failure. Status carries the upstream HTTP status code so callers can apply
// status-specific retry policy; it is 0 for network-level failures.
type GenerationError struct {
	Status  int
	Message string
}

func (e *GenerationError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gemini: %s", e.Message)
	}
	return fmt.Sprintf("gemini: %d %s", e.Status, e.Message)
}

// StatusOf extracts the upstream HTTP status from err, or 0.
func StatusOf(err error) int {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Status
	}
	return 0
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests
}
