package storage

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates the key is absolute or contains "..".
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// MapHTTPStatus maps storage errors to HTTP status codes. Unrecognized
// errors are upstream failures and map to 502.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.HasPrefix(key, "/"), strings.Contains(key, ".."):
		return ErrInvalidKey
	}
	return nil
}
