// Package docs serves an interactive API reference for the published
// OpenAPI document.
package docs

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/lading/pkg/module"
)

// ScriptURL is the Scalar API reference bundle the page loads.
const ScriptURL = "https://cdn.jsdelivr.net/npm/@scalar/api-reference"

//go:embed index.html
var pageFS embed.FS

var page = template.Must(template.ParseFS(pageFS, "index.html"))

// NewModule creates a module at prefix whose root renders the reference
// for the document served at specURL.
func NewModule(prefix, title, specURL string) (*module.Module, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, map[string]string{
		"Title":     title,
		"SpecURL":   specURL,
		"ScriptURL": ScriptURL,
	})
	if err != nil {
		return nil, err
	}
	body := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})

	return module.New(prefix, mux), nil
}
