package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + r.PathValue("id") + r.PathValue("key")))
	}
}

func groups() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/documents",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: respond("list"), Summary: "List documents", Paged: true},
				{Method: "GET", Pattern: "/{id}", Handler: respond("find:"), Responses: []string{openapi.NotFound}},
				{Method: "POST", Pattern: "", Handler: respond("upload"), Status: http.StatusCreated, Responses: []string{openapi.BadRequest, openapi.PayloadTooLarge, "Teapot"}},
				{Method: "DELETE", Pattern: "/{id}", Handler: respond("delete:")},
			},
		},
		{
			Prefix: "/storage",
			Children: []routes.Group{
				{
					Prefix: "/download",
					Routes: []routes.Route{
						{Method: "GET", Pattern: "/{key...}", Handler: respond("download:")},
					},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, groups()...)

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"list", "GET", "/documents", "list"},
		{"find", "GET", "/documents/42", "find:42"},
		{"upload", "POST", "/documents", "upload"},
		{"delete", "DELETE", "/documents/42", "delete:42"},
		{"nested wildcard", "GET", "/storage/download/documents/a/b.pdf", "download:documents/a/b.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalkAndPatterns(t *testing.T) {
	var prefixes []string
	routes.Walk(groups(), func(prefix string, _ routes.Route) {
		prefixes = append(prefixes, prefix)
	})

	wantPrefixes := []string{"/documents", "/documents", "/documents", "/documents", "/storage/download"}
	if !slices.Equal(prefixes, wantPrefixes) {
		t.Errorf("Walk prefixes = %v, want %v", prefixes, wantPrefixes)
	}

	want := []string{
		"GET /documents",
		"GET /documents/{id}",
		"POST /documents",
		"DELETE /documents/{id}",
		"GET /storage/download/{key...}",
	}
	if got := routes.Patterns(groups()...); !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Lading API", "test")
	routes.Describe(spec, groups()...)

	list := spec.Paths["/documents"].Get
	if list == nil {
		t.Fatal("GET /documents not described")
	}
	if list.Summary != "List documents" {
		t.Errorf("summary = %q", list.Summary)
	}
	if !slices.Equal(list.Tags, []string{"documents"}) {
		t.Errorf("tags = %v", list.Tags)
	}
	if list.Responses[http.StatusOK] == nil {
		t.Error("list should default to 200")
	}
	if len(list.Parameters) != 4 || list.Parameters[0].Name != "page" {
		t.Errorf("paged route parameters = %+v", list.Parameters)
	}

	find := spec.Paths["/documents/{id}"].Get
	if find.Summary != "GET /documents/{id}" {
		t.Errorf("fallback summary = %q", find.Summary)
	}
	if len(find.Parameters) != 1 || find.Parameters[0].Schema.Format != "uuid" {
		t.Errorf("id parameter = %+v", find.Parameters)
	}
	if ref := find.Responses[http.StatusNotFound]; ref == nil || ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("404 response = %+v", ref)
	}

	upload := spec.Paths["/documents"].Post
	if upload.Responses[http.StatusCreated] == nil {
		t.Error("upload should use its explicit 201 status")
	}
	if upload.Responses[http.StatusBadRequest] == nil || upload.Responses[http.StatusRequestEntityTooLarge] == nil {
		t.Errorf("upload responses = %v", upload.Responses)
	}
	if len(upload.Responses) != 3 {
		t.Errorf("unknown response names should be ignored, got %d responses", len(upload.Responses))
	}

	if del := spec.Paths["/documents/{id}"].Delete; del.Responses[http.StatusNoContent] == nil {
		t.Error("DELETE should default to 204")
	}

	download := spec.Paths["/storage/download/{key}"]
	if download == nil || download.Get == nil {
		t.Fatalf("wildcard path not normalized: %v", spec.Paths)
	}
	p := download.Get.Parameters
	if len(p) != 1 || p[0].Name != "key" || p[0].Schema.Format != "" || !p[0].Required {
		t.Errorf("key parameter = %+v", p)
	}
	if !slices.Equal(download.Get.Tags, []string{"storage"}) {
		t.Errorf("nested tags = %v", download.Get.Tags)
	}
}
