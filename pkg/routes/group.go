// Package routes groups handlers under shared prefixes and registers them on
// a ServeMux using Go 1.22 method patterns.
package routes

import (
	"net/http"
	"strings"
)

// Group organizes routes under a common prefix. The first segment of the
// prefix doubles as the OpenAPI tag.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(groups, func(prefix string, route Route) {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	})
}

// Walk visits every route with its fully joined prefix, depth first in
// declaration order.
func Walk(groups []Group, fn func(prefix string, route Route)) {
	for _, group := range groups {
		walkGroup("", group, fn)
	}
}

func walkGroup(parentPrefix string, group Group, fn func(string, Route)) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		fn(fullPrefix, route)
	}
	for _, child := range group.Children {
		walkGroup(fullPrefix, child, fn)
	}
}

func tag(prefix string) string {
	return strings.SplitN(strings.TrimPrefix(prefix, "/"), "/", 2)[0]
}
