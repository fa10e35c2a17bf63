package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("prompt not found")
	ErrDuplicate           = errors.New("prompt name already exists")
	ErrInvalidPrompt       = errors.New("name and instructions are required")
	ErrInvalidDocumentType = errors.New("document_type must be booking_confirmation, bill_of_lading, delivery_order, or transport_order")
)

// MapHTTPStatus maps prompt domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDocumentType), errors.Is(err, ErrInvalidPrompt):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
