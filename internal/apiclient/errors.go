package apiclient

import (
	"errors"
	"fmt"
)

// ErrServerUnavailable indicates the denoising service is not reachable.
var ErrServerUnavailable = errors.New("server unavailable")

// ErrServerTimeout indicates the service took too long to respond.
var ErrServerTimeout = errors.New("server timeout")

// ServerError represents an error the service reported over HTTP.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
}

// IsServerError checks if an error is a ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
