package prompts

import (
	"net/url"

	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("document_type", "DocumentType").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored. DocumentType and Active use exact matching.
// Name uses case-insensitive contains matching.
type Filters struct {
	DocumentType *string `json:"document_type,omitempty"`
	Name         *string `json:"name,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentType", f.DocumentType).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads filters from URL query parameters. An unparseable
// active flag is ignored.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		DocumentType: query.String(values, "document_type"),
		Name:         query.String(values, "name"),
		Active:       query.Bool(values, "active"),
	}
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.DocumentType,
		&p.Instructions,
		&p.Description,
		&p.Active,
	)
	return p, err
}
