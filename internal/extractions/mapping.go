package extractions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/pipeline"
	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "extractions", "e").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("group_index", "GroupIndex").
	Project("start_page", "StartPage").
	Project("end_page", "EndPage").
	Project("document_type", "DocumentType").
	Project("carrier", "Carrier").
	Project("classification", "Classification").
	Project("status", "Status").
	Project("data", "Data").
	Project("validation", "Validation").
	Project("confidence_score", "ConfidenceScore").
	Project("metadata", "Metadata").
	Project("source_text", "SourceText").
	Project("error", "Error").
	Project("extracted_at", "ExtractedAt").
	Project("validated_by", "ValidatedBy").
	Project("validated_at", "ValidatedAt")

var defaultSort = query.SortField{
	Field:      "ExtractedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for extraction queries.
// Validated selects rows with or without a review.
type Filters struct {
	DocumentID    *uuid.UUID `json:"document_id,omitempty"`
	DocumentType  *string    `json:"document_type,omitempty"`
	Carrier       *string    `json:"carrier,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Validated     *bool      `json:"validated,omitempty"`
	MinConfidence *float64   `json:"min_confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("Carrier", f.Carrier).
		WhereEquals("Status", f.Status).
		WhereAtLeast("ConfidenceScore", f.MinConfidence)

	if f.Validated != nil {
		if *f.Validated {
			b.WhereNotNull("ValidatedAt")
		} else {
			b.WhereNullable("ValidatedAt", nil)
		}
	}
	return b
}

// FiltersFromQuery reads filters from URL query parameters. Carrier is
// lowercased to match stored values; malformed IDs, flags and confidences
// are ignored.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		DocumentID:    query.Param(values, "document_id", uuid.Parse),
		DocumentType:  query.String(values, "document_type"),
		Carrier:       query.Param(values, "carrier", lower),
		Status:        query.String(values, "status"),
		Validated:     query.Bool(values, "validated"),
		MinConfidence: query.Float(values, "min_confidence"),
	}
}

func lower(s string) (string, error) { return strings.ToLower(s), nil }

func scanExtraction(s repository.Scanner) (Extraction, error) {
	var (
		e              Extraction
		docType        string
		status         string
		classification []byte
		data           []byte
		validation     []byte
		metadata       []byte
	)

	err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.GroupIndex,
		&e.StartPage,
		&e.EndPage,
		&docType,
		&e.Carrier,
		&classification,
		&status,
		&data,
		&validation,
		&e.ConfidenceScore,
		&metadata,
		&e.SourceText,
		&e.Error,
		&e.ExtractedAt,
		&e.ValidatedBy,
		&e.ValidatedAt,
	)
	if err != nil {
		return e, err
	}

	e.DocumentType = dcsa.DocumentType(docType)
	e.Status = pipeline.Status(status)

	if len(classification) > 0 {
		if err := json.Unmarshal(classification, &e.Classification); err != nil {
			return e, fmt.Errorf("unmarshal classification: %w", err)
		}
	}

	if len(data) > 0 {
		e.Data = json.RawMessage(data)
	}

	if len(validation) > 0 {
		var v dcsa.ValidationResult
		if err := json.Unmarshal(validation, &v); err != nil {
			return e, fmt.Errorf("unmarshal validation: %w", err)
		}
		e.Validation = &v
	}

	if len(metadata) > 0 {
		var m extraction.Metadata
		if err := json.Unmarshal(metadata, &m); err != nil {
			return e, fmt.Errorf("unmarshal metadata: %w", err)
		}
		e.Metadata = &m
	}

	return e, nil
}

// jsonArg encodes v for a jsonb parameter. Nil pointers become NULL.
func jsonArg[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func rawArg(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
