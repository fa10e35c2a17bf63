// Package documents registers uploaded shipping PDFs. Each document is
// archived to blob storage, recorded in Postgres, and tracked through the
// review workflow as its extractions are produced and approved.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// ContentTypePDF is the only accepted upload type.
const ContentTypePDF = "application/pdf"

// Status is the review state of a document.
type Status string

const (
	// StatusPending documents have not been extracted.
	StatusPending Status = "pending"
	// StatusReview documents have extractions awaiting approval.
	StatusReview Status = "review"
	// StatusComplete documents have every extraction approved.
	StatusComplete Status = "complete"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReview, StatusComplete:
		return true
	}
	return false
}

// Document is a registered PDF and its blob storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Reference   string    `json:"reference"`
	Status      Status    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries an uploaded PDF. Reference is an optional shipment
// or customer reference supplied by the uploader. PageCount is nil when the
// PDF could not be parsed.
type CreateCommand struct {
	Data      []byte
	Filename  string
	Reference string
	PageCount *int
}
