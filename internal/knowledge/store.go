package knowledge

import (
	"cmp"
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/query"
)

// Criteria selects few-shot examples for a document.
type Criteria struct {
	DocumentType dcsa.DocumentType
	Carrier      string
	Limit        int
}

// Store persists knowledge base examples.
type Store interface {
	// FewShot returns up to c.Limit validated examples in rank order.
	FewShot(ctx context.Context, c Criteria) ([]Example, error)
	Insert(ctx context.Context, e Example) (*Example, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	// Stale returns the IDs of examples that are unvalidated, below
	// minConfidence, or validated before cutoff.
	Stale(ctx context.Context, minConfidence float64, cutoff time.Time) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, id uuid.UUID) (*Example, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Example], error)
	Stats(ctx context.Context) (*Stats, error)
}

// Filters contains optional filtering criteria for example queries.
type Filters struct {
	DocumentType  *string  `json:"document_type,omitempty"`
	Carrier       *string  `json:"carrier,omitempty"`
	Validated     *bool    `json:"validated,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("Carrier", f.Carrier).
		WhereEquals("Validated", f.Validated).
		WhereAtLeast("ConfidenceScore", f.MinConfidence)
}

// FiltersFromQuery reads filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		DocumentType:  query.String(values, "document_type"),
		Carrier:       query.String(values, "carrier"),
		Validated:     query.Bool(values, "validated"),
		MinConfidence: query.Float(values, "min_confidence"),
	}
}

func (f Filters) match(e Example) bool {
	if f.DocumentType != nil && string(e.DocumentType) != *f.DocumentType {
		return false
	}
	if f.Carrier != nil && e.Carrier != *f.Carrier {
		return false
	}
	if f.Validated != nil && e.Validated != *f.Validated {
		return false
	}
	if f.MinConfidence != nil && e.ConfidenceScore < *f.MinConfidence {
		return false
	}
	return true
}

// Rank tiers. Lower ranks first.
const (
	rankCarrierAndType = iota
	rankCarrier
	rankType
	rankIneligible
)

func rank(e Example, c Criteria) int {
	if !e.Validated {
		return rankIneligible
	}

	carrier := hasCarrier(c.Carrier) && e.Carrier == c.Carrier
	docType := e.DocumentType == c.DocumentType

	switch {
	case carrier && docType:
		return rankCarrierAndType
	case carrier:
		return rankCarrier
	case docType:
		return rankType
	default:
		return rankIneligible
	}
}

// selectExamples orders candidates by rank, then confidence descending, then
// validation recency descending, and keeps the first c.Limit.
func selectExamples(candidates []Example, c Criteria) []Example {
	out := make([]Example, 0, len(candidates))
	for _, e := range candidates {
		if rank(e, c) != rankIneligible {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b Example) int {
		return cmp.Or(
			cmp.Compare(rank(a, c), rank(b, c)),
			cmp.Compare(b.ConfidenceScore, a.ConfidenceScore),
			b.ValidatedDate.Compare(a.ValidatedDate),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})

	if c.Limit >= 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out
}
