package completion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates the service rejected the bearer token.
	ErrUnauthorized = errors.New("completion service rejected credentials")
	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("completion service rate limit exceeded")
	// ErrBadRequest indicates the service rejected the request as malformed.
	ErrBadRequest = errors.New("completion service rejected request")
	// ErrUpstream indicates a server-side failure or an unexpected status.
	ErrUpstream = errors.New("completion service failure")
	// ErrTransport indicates the request never received a response (network error or timeout).
	ErrTransport = errors.New("completion service unreachable")
	// ErrMalformedResponse indicates the response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed completion response")
	// ErrEmptyResponse indicates the response carried no choices.
	ErrEmptyResponse = errors.New("completion response has no choices")
)

// APIError is a non-2xx response from the completion service.
// It unwraps to the sentinel matching its status code.
type APIError struct {
	Status  int
	Type    string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion service returned status %d", e.Status)
	}
	return fmt.Sprintf("completion service returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return statusError(e.Status)
}

func statusError(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return ErrBadRequest
	default:
		return ErrUpstream
	}
}
