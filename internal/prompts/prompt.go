// Package prompts implements the extraction prompt override domain. It
// provides types, data access, and HTTP handlers for managing named
// instruction overrides per document type, and the built-in defaults used
// when no override is active.
package prompts

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
)

// Prompt represents a named instruction override for a document type.
type Prompt struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	DocumentType dcsa.DocumentType `json:"document_type"`
	Instructions string            `json:"instructions"`
	Description  *string           `json:"description"`
	Active       bool              `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string            `json:"name"`
	DocumentType dcsa.DocumentType `json:"document_type"`
	Instructions string            `json:"instructions"`
	Description  *string           `json:"description"`
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name         string            `json:"name"`
	DocumentType dcsa.DocumentType `json:"document_type"`
	Instructions string            `json:"instructions"`
	Description  *string           `json:"description"`
}

func validateCommand(name string, t dcsa.DocumentType, instructions string) error {
	if !t.Valid() {
		return ErrInvalidDocumentType
	}
	if name == "" || instructions == "" {
		return ErrInvalidPrompt
	}
	return nil
}
