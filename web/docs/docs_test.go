package docs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/lading/web/docs"
)

func TestNewModule(t *testing.T) {
	m, err := docs.NewModule("/docs", "Lading API", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/docs" {
		t.Errorf("prefix = %s, want /docs", m.Prefix())
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/docs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %s", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>Lading API</title>",
		`data-url="/api/openapi.json"`,
		docs.ScriptURL,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestNewModuleUnknownPath(t *testing.T) {
	m, err := docs.NewModule("/docs", "Lading API", "/api/openapi.json")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/docs/missing.js", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
