package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Summary, Status,
// Paged, and Responses only feed the published OpenAPI document. A zero
// Status means 204 for DELETE and 200 otherwise. Responses names error
// components.
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	Summary   string
	Status    int
	Paged     bool
	Responses []string
}
