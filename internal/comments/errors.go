package comments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/stance/internal/classifier"
)

// Domain errors for comment table operations.
var (
	ErrMissingColumn      = errors.New("table must contain a column named 'Comment'")
	ErrLoadFailed         = errors.New("failed to read comment table")
	ErrUnsupportedFormat  = errors.New("unsupported file format: use .csv or .xlsx")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrMissingFile        = errors.New("multipart field 'file' is required")
	ErrExportsUnavailable = errors.New("export storage is not configured")
)

// MapHTTPStatus maps comment domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingColumn),
		errors.Is(err, ErrLoadFailed),
		errors.Is(err, ErrMissingFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrExportsUnavailable):
		return http.StatusNotFound
	}
	return classifier.MapHTTPStatus(err)
}
