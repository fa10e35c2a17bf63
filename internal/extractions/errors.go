package extractions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lading/internal/documents"
)

// Domain errors for extraction operations.
var (
	ErrNotFound        = errors.New("extraction not found")
	ErrDuplicate       = errors.New("extraction already exists")
	ErrPipeline        = errors.New("document pipeline failed")
	ErrNotExtracted    = errors.New("extraction has no data to approve")
	ErrAlreadyReviewed = errors.New("extraction already reviewed")
	ErrNotExtractable  = errors.New("extraction has no known document type")
	ErrInvalidData     = errors.New("invalid extraction data")
)

// MapHTTPStatus maps extraction domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrNotExtracted),
		errors.Is(err, ErrAlreadyReviewed),
		errors.Is(err, ErrNotExtractable):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, ErrPipeline):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
