package pdftext_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/lading/pkg/pdftext"
)

func TestLocalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("BOOKING CONFIRMATION\nthis is not a pdf")},
		{"truncated header", []byte("%PDF-1.7\n1 0 obj\n<<")},
	}

	ext := pdftext.NewLocal()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ext.Extract(context.Background(), tt.data)
			if !errors.Is(err, pdftext.ErrExtraction) {
				t.Errorf("error = %v, want ErrExtraction", err)
			}
		})
	}
}

// textPDF builds a PDF with one Helvetica text line per page.
func textPDF(lines ...string) []byte {
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(lines))
	for i := range lines {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(lines)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, line := range lines {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestLocalExtract(t *testing.T) {
	lines := []string{
		"BOOKING CONFIRMATION Booking Number 883301",
		"Container MAEU1234565 40HC",
		"BILL OF LADING B/L No MAEU987654321",
	}

	res, err := pdftext.NewLocal().Extract(context.Background(), textPDF(lines...))
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}

	if res.PageCount != 3 || len(res.Pages) != 3 {
		t.Fatalf("PageCount = %d, pages = %d, want 3", res.PageCount, len(res.Pages))
	}
	for i, p := range res.Pages {
		if p.PageNumber != i+1 {
			t.Errorf("pages[%d].PageNumber = %d, want %d", i, p.PageNumber, i+1)
		}
		if p.Text != lines[i] {
			t.Errorf("pages[%d].Text = %q, want %q", i, p.Text, lines[i])
		}
	}

	if want := strings.Join(lines, "\n\n"); res.FullText != want {
		t.Errorf("FullText = %q, want %q", res.FullText, want)
	}
}

func TestLocalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdftext.NewLocal().Extract(ctx, textPDF("page one"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type analyzeServer struct {
	key       string
	pollsLeft atomic.Int32
	final     string
	submitted []byte
}

func (s *analyzeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-read:analyze", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != s.key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.URL.Query().Get("api-version"); got != "2024-11-30" {
			t.Errorf("api-version = %q, want 2024-11-30", got)
		}

		var body struct {
			Base64Source string `json:"base64Source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		s.submitted, _ = base64.StdEncoding.DecodeString(body.Base64Source)

		w.Header().Set("Operation-Location", "http://"+r.Host+"/operations/1")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if s.pollsLeft.Add(-1) >= 0 {
			w.Write([]byte(`{"status":"running"}`))
			return
		}
		w.Write([]byte(s.final))
	})

	return mux
}

func azureConfig(endpoint, key string) *pdftext.Config {
	return &pdftext.Config{
		Backend: pdftext.BackendAzure,
		Azure: pdftext.AzureConfig{
			Endpoint:     endpoint,
			APIKey:       key,
			Timeout:      "5s",
			PollInterval: "5ms",
		},
	}
}

func newAzure(t *testing.T, cfg *pdftext.Config) pdftext.Extractor {
	t.Helper()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	ext, err := pdftext.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ext
}

func TestAzureExtract(t *testing.T) {
	srv := &analyzeServer{
		key: "secret",
		final: `{
			"status": "succeeded",
			"analyzeResult": {
				"content": "ignored",
				"pages": [
					{"pageNumber": 2, "lines": [{"content": "BILL OF LADING"}, {"content": "B/L No. MAEU240198765"}]},
					{"pageNumber": 1, "lines": [{"content": "BOOKING CONFIRMATION"}]}
				]
			}
		}`,
	}
	srv.pollsLeft.Store(2)

	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	ext := newAzure(t, azureConfig(ts.URL, "secret"))

	input := []byte("%PDF-1.7 scanned")
	got, err := ext.Extract(context.Background(), input)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if string(srv.submitted) != string(input) {
		t.Errorf("submitted = %q, want %q", srv.submitted, input)
	}
	if got.PageCount != 2 {
		t.Fatalf("PageCount = %d, want 2", got.PageCount)
	}
	for i, p := range got.Pages {
		if p.PageNumber != i+1 {
			t.Errorf("Pages[%d].PageNumber = %d, want %d", i, p.PageNumber, i+1)
		}
	}

	want := "BOOKING CONFIRMATION\n\nBILL OF LADING\nB/L No. MAEU240198765"
	if got.FullText != want {
		t.Errorf("FullText = %q, want %q", got.FullText, want)
	}
}

func TestAzureFailures(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		final   string
		polls   int32
		timeout string
		wantMsg string
	}{
		{
			name:    "analysis failed",
			key:     "secret",
			final:   `{"status":"failed","error":{"code":"InvalidContent","message":"corrupt"}}`,
			wantMsg: "InvalidContent",
		},
		{
			name:    "unauthorized",
			key:     "wrong",
			final:   `{"status":"succeeded","analyzeResult":{}}`,
			wantMsg: "401",
		},
		{
			name:    "timeout",
			key:     "secret",
			final:   `{"status":"running"}`,
			polls:   1 << 20,
			timeout: "50ms",
			wantMsg: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &analyzeServer{key: "secret", final: tt.final}
			srv.pollsLeft.Store(tt.polls)

			ts := httptest.NewServer(srv.handler(t))
			defer ts.Close()

			cfg := azureConfig(ts.URL, tt.key)
			if tt.timeout != "" {
				cfg.Azure.Timeout = tt.timeout
			}
			ext := newAzure(t, cfg)

			_, err := ext.Extract(context.Background(), []byte("%PDF-1.7"))
			if !errors.Is(err, pdftext.ErrExtraction) {
				t.Fatalf("error = %v, want ErrExtraction", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestAzureCanceled(t *testing.T) {
	srv := &analyzeServer{key: "secret", final: `{"status":"running"}`}
	srv.pollsLeft.Store(1 << 20)

	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	ext := newAzure(t, azureConfig(ts.URL, "secret"))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := ext.Extract(ctx, []byte("%PDF-1.7 scanned"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, pdftext.ErrExtraction) {
		t.Errorf("canceled extraction reported as ErrExtraction: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg pdftext.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Backend != pdftext.BackendLocal {
			t.Errorf("Backend = %q, want local", cfg.Backend)
		}
		if cfg.Azure.Model != "prebuilt-read" {
			t.Errorf("Model = %q, want prebuilt-read", cfg.Azure.Model)
		}
		if cfg.Azure.TimeoutDuration().Seconds() != 45 {
			t.Errorf("Timeout = %s, want 45s", cfg.Azure.TimeoutDuration())
		}
	})

	t.Run("azure requires endpoint", func(t *testing.T) {
		cfg := pdftext.Config{Backend: pdftext.BackendAzure}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for missing endpoint")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_OCR_BACKEND", "azure")
		t.Setenv("TEST_OCR_ENDPOINT", "https://ocr.example.com")

		cfg := pdftext.Config{}
		env := &pdftext.Env{Backend: "TEST_OCR_BACKEND", AzureEndpoint: "TEST_OCR_ENDPOINT"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Backend != pdftext.BackendAzure {
			t.Errorf("Backend = %q, want azure", cfg.Backend)
		}
		if cfg.Azure.Endpoint != "https://ocr.example.com" {
			t.Errorf("Endpoint = %q", cfg.Azure.Endpoint)
		}
	})

	t.Run("invalid backend", func(t *testing.T) {
		cfg := pdftext.Config{Backend: "tesseract"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}

func TestMerge(t *testing.T) {
	base := pdftext.Config{Backend: pdftext.BackendLocal, Azure: pdftext.AzureConfig{Model: "prebuilt-read"}}
	base.Merge(&pdftext.Config{Backend: pdftext.BackendAzure, Azure: pdftext.AzureConfig{Endpoint: "https://x"}})

	if base.Backend != pdftext.BackendAzure {
		t.Errorf("Backend = %q, want azure", base.Backend)
	}
	if base.Azure.Endpoint != "https://x" || base.Azure.Model != "prebuilt-read" {
		t.Errorf("Azure = %+v", base.Azure)
	}
}
