package classifier

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredential indicates no token was supplied for the completion service.
	// It is detected before any network call.
	ErrMissingCredential = errors.New("completion service token is required")
	// ErrEmptyComment indicates a blank comment was submitted for classification.
	// Callers reject blank input; Classify itself does not.
	ErrEmptyComment = errors.New("comment must not be empty")
)

// CallError reports a failed classification call. The classifier returns
// it alongside LabelError; it unwraps to the underlying completion failure.
type CallError struct {
	Err error
}

func (e *CallError) Error() string {
	return "classify comment: " + e.Err.Error()
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps classifier errors to HTTP status codes.
// A CallError is a per-call notice, not a request failure, and maps to 200.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingCredential) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrEmptyComment) {
		return http.StatusBadRequest
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
