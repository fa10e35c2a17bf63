package routes

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/JaimeStill/lading/pkg/openapi"
)

var wildcard = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(\.\.\.)?\}`)

// Describe adds an operation for every route in groups to spec. Path
// wildcards become required path parameters; {id} is typed as a UUID and
// trailing {name...} wildcards as plain strings. Paged routes also get the
// page query parameters.
func Describe(spec *openapi.Spec, groups ...Group) {
	Walk(groups, func(prefix string, route Route) {
		path := wildcard.ReplaceAllString(prefix+route.Pattern, "{$1}")
		if path == "" {
			path = "/"
		}

		op := &openapi.Operation{
			Summary:   route.Summary,
			Tags:      []string{tag(prefix)},
			Responses: map[int]*openapi.Response{successStatus(route): {Description: "Success"}},
		}
		for _, m := range wildcard.FindAllStringSubmatch(route.Pattern, -1) {
			op.Parameters = append(op.Parameters, pathParam(m[1], m[2] != ""))
		}
		if route.Paged {
			op.Parameters = append(op.Parameters, openapi.PageParams()...)
		}
		for _, name := range route.Responses {
			if code, ok := errorStatus[name]; ok {
				op.Responses[code] = openapi.ResponseRef(name)
			}
		}
		if op.Summary == "" {
			op.Summary = route.Method + " " + path
		}

		spec.AddOperation(route.Method, path, op)
	})
}

func pathParam(name string, rest bool) *openapi.Parameter {
	if !rest && name == "id" {
		return openapi.PathParam(name, "Resource identifier")
	}
	return &openapi.Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string"},
	}
}

func successStatus(route Route) int {
	switch {
	case route.Status != 0:
		return route.Status
	case route.Method == http.MethodDelete:
		return http.StatusNoContent
	default:
		return http.StatusOK
	}
}

var errorStatus = map[string]int{
	openapi.BadRequest:           http.StatusBadRequest,
	openapi.NotFound:             http.StatusNotFound,
	openapi.Conflict:             http.StatusConflict,
	openapi.PayloadTooLarge:      http.StatusRequestEntityTooLarge,
	openapi.UnsupportedMediaType: http.StatusUnsupportedMediaType,
	openapi.BadGateway:           http.StatusBadGateway,
}

// Patterns lists every route as "METHOD /path", in registration order.
func Patterns(groups ...Group) []string {
	var out []string
	Walk(groups, func(prefix string, route Route) {
		out = append(out, strings.TrimSpace(route.Method+" "+prefix+route.Pattern))
	})
	return out
}
