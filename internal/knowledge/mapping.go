package knowledge

import (
	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "knowledge_examples", "k").
	Project("id", "ID").
	Project("document_type", "DocumentType").
	Project("carrier", "Carrier").
	Project("document_snippet", "DocumentSnippet").
	Project("extracted_data", "ExtractedData").
	Project("validated", "Validated").
	Project("validated_by", "ValidatedBy").
	Project("validated_date", "ValidatedDate").
	Project("usage_count", "UsageCount").
	Project("confidence_score", "ConfidenceScore").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanExample(s repository.Scanner) (Example, error) {
	var (
		e    Example
		data []byte
	)
	err := s.Scan(
		&e.ID,
		&e.DocumentType,
		&e.Carrier,
		&e.DocumentSnippet,
		&data,
		&e.Validated,
		&e.ValidatedBy,
		&e.ValidatedDate,
		&e.UsageCount,
		&e.ConfidenceScore,
		&e.CreatedAt,
	)
	e.ExtractedData = data
	return e, err
}
