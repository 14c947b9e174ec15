package fliptclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned by New when the base URL is empty or malformed.
	ErrInvalidURL = errors.New("fliptclient: invalid base URL")

	// ErrRequestFailed wraps transport-level failures.
	ErrRequestFailed = errors.New("fliptclient: request failed")

	// ErrDecodeResponse wraps failures to decode a response body.
	ErrDecodeResponse = errors.New("fliptclient: failed to decode response")
)

// APIError is returned for any non-2xx response from Flipt.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}
