package documents

import (
	"net/url"

	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("reference", "Reference").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Status uses exact matching; Filename and Reference use case-insensitive
// contains matching.
type Filters struct {
	Status    *string `json:"status,omitempty"`
	Filename  *string `json:"filename,omitempty"`
	Reference *string `json:"reference,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereContains("Reference", f.Reference)
}

// FiltersFromQuery reads filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Status:    query.String(values, "status"),
		Filename:  query.String(values, "filename"),
		Reference: query.String(values, "reference"),
	}
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Reference,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
