package openapi

import "maps"

// Error response component names.
const (
	BadRequest           = "BadRequest"
	NotFound             = "NotFound"
	Conflict             = "Conflict"
	PayloadTooLarge      = "PayloadTooLarge"
	UnsupportedMediaType = "UnsupportedMediaType"
	BadGateway           = "BadGateway"
)

// NewComponents creates Components with the page request schema and the
// error responses every handler can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: filename,-uploaded_at"},
				},
			},
		},
		Responses: map[string]*Response{
			BadRequest:           errorResponse("Invalid request"),
			NotFound:             errorResponse("Resource not found"),
			Conflict:             errorResponse("Resource conflict or invalid state transition"),
			PayloadTooLarge:      errorResponse("Upload exceeds the configured size limit"),
			UnsupportedMediaType: errorResponse("Upload is not a PDF"),
			BadGateway:           errorResponse("Text extraction or LLM provider failure"),
		},
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
