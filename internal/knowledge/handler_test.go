package knowledge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/pkg/pagination"
)

func setupMux(h *knowledge.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandler(t *testing.T) {
	sys := newSystem(knowledge.NewMemoryStore())
	mux := setupMux(sys.Handler())

	var created knowledge.Example

	t.Run("add", func(t *testing.T) {
		body := `{
			"document_type": "bill_of_lading",
			"carrier": "maersk",
			"document_text": "BILL OF LADING\nB/L Number: MAEU1",
			"extracted_data": {"billOfLadingNumber": "MAEU1"},
			"validated_by": "ops",
			"confidence_score": 0.9
		}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/knowledge", bytes.NewBufferString(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.Carrier != "maersk" || !created.Validated {
			t.Errorf("created = %+v", created)
		}
	})

	t.Run("add rejects unknown type", func(t *testing.T) {
		body := `{"document_type": "invoice", "extracted_data": {}}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/knowledge", bytes.NewBufferString(body)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("add rejects low confidence", func(t *testing.T) {
		body := `{
			"document_type": "bill_of_lading",
			"carrier": "maersk",
			"document_text": "BILL OF LADING",
			"extracted_data": {"billOfLadingNumber": "MAEU2"},
			"confidence_score": 0.3
		}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/knowledge", bytes.NewBufferString(body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
		}

		stats, err := sys.Stats(context.Background())
		if err != nil {
			t.Fatalf("Stats error = %v", err)
		}
		if stats.Total != 1 {
			t.Errorf("total = %d, want only the first example stored", stats.Total)
		}
	})

	t.Run("find", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/knowledge/"+created.ID.String(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("find invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/knowledge/not-a-uuid", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("find missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/knowledge/"+uuid.NewString(), nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/knowledge?carrier=maersk", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[knowledge.Example]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 {
			t.Errorf("Total = %d, want 1", result.Total)
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/knowledge/stats", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var stats knowledge.Stats
		if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if stats.Total != 1 {
			t.Errorf("Total = %d, want 1", stats.Total)
		}
	})

	t.Run("prune with explicit policy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"min_confidence": 0.95}`)
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/knowledge/prune", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result knowledge.PruneResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Deleted != 1 {
			t.Errorf("Deleted = %d, want 1", result.Deleted)
		}
	})

	t.Run("prune with empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/knowledge/prune", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/knowledge/"+created.ID.String(), nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
