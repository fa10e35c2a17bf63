package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/lading/pkg/middleware"
)

// Module mounts a handler under a single-level path prefix. Requests reach
// the handler with the prefix removed and pass through the module's own
// middleware first.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System
}

// New mounts handler under prefix (for example "/api"). It panics when the
// prefix is not a single leading-slash segment.
func New(prefix string, handler http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		handler:    handler,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount point.
func (m *Module) Prefix() string { return m.prefix }

// Use appends mw to the module's middleware stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the wrapped handler without prefix stripping.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.handler)
}

// Serve dispatches req to the module with its prefix removed. The caller's
// request is left untouched.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, strip(req, m.prefix))
}

func strip(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}
	return withPath(req, path)
}

// withPath returns a copy of req addressed to path.
func withPath(req *http.Request, path string) *http.Request {
	u := *req.URL
	u.Path = path
	u.RawPath = ""

	out := req.Clone(req.Context())
	out.URL = &u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("module prefix must be a single-level path: %s", prefix)
	}
	return nil
}
