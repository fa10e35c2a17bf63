package knowledge

import (
	"errors"
	"net/http"
)

// Domain errors for knowledge base operations.
var (
	ErrNotFound       = errors.New("example not found")
	ErrDuplicate      = errors.New("example already exists")
	ErrInvalidExample = errors.New("invalid example")
)

// MapHTTPStatus maps knowledge domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidExample) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
