package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/denoise-go/denoise-go/internal/schema"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ParseRequestBody decodes the request body into the provided value based on Content-Type.
func ParseRequestBody(r *http.Request, v interface{}) error {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	switch strings.ToLower(mediaType) {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return &HTTPError{Status: http.StatusBadRequest, Message: "Invalid request body"}
		}
	case "application/msgpack":
		if err := msgpack.NewDecoder(r.Body).Decode(v); err != nil {
			return &HTTPError{Status: http.StatusBadRequest, Message: "Invalid request body"}
		}
	default:
		return &HTTPError{Status: http.StatusUnsupportedMediaType, Message: "Unsupported content type"}
	}

	return nil
}

// ParseDenoiseRequest parses and validates a DenoiseRequest from the HTTP request.
func ParseDenoiseRequest(r *http.Request) (*schema.DenoiseRequest, error) {
	var req schema.DenoiseRequest

	if err := ParseRequestBody(r, &req); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, &HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	}

	return &req, nil
}

// IsHTTPError checks whether an error is an *HTTPError.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
