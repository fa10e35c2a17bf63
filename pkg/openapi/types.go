package openapi

import "github.com/JaimeStill/lading/pkg/pagination"

// Operation is one method on one path.
type Operation struct {
	Summary    string            `json:"summary,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Parameters []*Parameter      `json:"parameters,omitempty"`
	Responses  map[int]*Response `json:"responses"`
}

// Parameter is a path or query parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

// Response is either inline or a $ref into the component responses.
type Response struct {
	Ref         string                `json:"$ref,omitempty"`
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the JSON Schema subset the published document uses.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Example     any                `json:"example,omitempty"`
}

// Components holds the reusable schemas and responses that $refs point at.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

const (
	schemaPrefix   = "#/components/schemas/"
	responsePrefix = "#/components/responses/"
)

func SchemaRef(name string) *Schema     { return &Schema{Ref: schemaPrefix + name} }
func ResponseRef(name string) *Response { return &Response{Ref: responsePrefix + name} }

// PathParam is a required path parameter holding a UUID.
func PathParam(name, description string) *Parameter {
	p := param(name, "path", "string", description)
	p.Required = true
	p.Schema.Format = "uuid"
	return p
}

// QueryParam is a query parameter of JSON schema type typ.
func QueryParam(name, typ, description string, required bool) *Parameter {
	p := param(name, "query", typ, description)
	p.Required = required
	return p
}

// PageParams lists the optional query parameters every paged route reads.
func PageParams() []*Parameter {
	return []*Parameter{
		QueryParam(pagination.ParamPage, "integer", "Page number (1-indexed)", false),
		QueryParam(pagination.ParamPageSize, "integer", "Results per page, capped by the server", false),
		QueryParam(pagination.ParamSearch, "string", "Case-insensitive substring search", false),
		QueryParam(pagination.ParamSort, "string", "Comma-separated sort fields; prefix - for descending", false),
	}
}

func param(name, in, typ, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          in,
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}
