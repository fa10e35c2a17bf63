package module

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/lading/pkg/middleware"
)

// Router dispatches requests to mounted modules by their first path segment,
// falling back to a native ServeMux for health probes and other unmatched
// paths. Router middleware wraps both.
type Router struct {
	modules    map[string]*Module
	native     *http.ServeMux
	middleware middleware.System
}

// NewRouter creates a Router with an empty module map and native fallback mux.
func NewRouter() *Router {
	return &Router{
		modules:    make(map[string]*Module),
		native:     http.NewServeMux(),
		middleware: middleware.New(),
	}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module to handle requests matching its prefix. Mounting
// two modules under one prefix panics.
func (r *Router) Mount(m *Module) {
	if _, ok := r.modules[m.prefix]; ok {
		panic(fmt.Sprintf("module already mounted at %s", m.prefix))
	}
	r.modules[m.prefix] = m
}

// Prefixes returns the mounted module prefixes in sorted order.
func (r *Router) Prefixes() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Use adds middleware that runs ahead of module and native dispatch.
func (r *Router) Use(mw func(http.Handler) http.Handler) {
	r.middleware.Use(mw)
}

// ServeHTTP dispatches to the matching module or falls back to the native mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.middleware.Apply(http.HandlerFunc(r.dispatch)).ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	req = normalizePath(req)

	if m, ok := r.modules[extractPrefix(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func extractPrefix(path string) string {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[1]
	}
	return path
}

// normalizePath trims one trailing slash, returning a copy of req when the
// path changes.
func normalizePath(req *http.Request) *http.Request {
	path := req.URL.Path
	if len(path) <= 1 || !strings.HasSuffix(path, "/") {
		return req
	}
	return withPath(req, strings.TrimSuffix(path, "/"))
}
