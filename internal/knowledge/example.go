// Package knowledge curates validated extractions as few-shot examples.
// Examples are ranked by carrier and document type affinity, pruned by age
// and confidence, and counted as they are used in prompts.
package knowledge

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
)

const (
	// MaxSnippetLength bounds the stored document text, in characters.
	MaxSnippetLength = 2000

	// MinAddConfidence is the lowest extraction confidence eligible for the
	// knowledge base.
	MinAddConfidence = 0.85
)

// Example is a validated extraction paired with the text it came from.
type Example struct {
	ID              uuid.UUID         `json:"id"`
	DocumentType    dcsa.DocumentType `json:"document_type"`
	Carrier         string            `json:"carrier"`
	DocumentSnippet string            `json:"document_snippet"`
	ExtractedData   json.RawMessage   `json:"extracted_data"`
	Validated       bool              `json:"validated"`
	ValidatedBy     string            `json:"validated_by"`
	ValidatedDate   time.Time         `json:"validated_date"`
	UsageCount      int               `json:"usage_count"`
	ConfidenceScore float64           `json:"confidence_score"`
	CreatedAt       time.Time         `json:"created_at"`
}

// AddCommand carries an approved extraction into the knowledge base.
type AddCommand struct {
	DocumentType    dcsa.DocumentType `json:"document_type"`
	Carrier         string            `json:"carrier"`
	DocumentText    string            `json:"document_text"`
	ExtractedData   json.RawMessage   `json:"extracted_data"`
	ValidatedBy     string            `json:"validated_by"`
	ConfidenceScore float64           `json:"confidence_score"`
}

// PruneCommand holds the pruning policy. Zero values fall back to the
// configured defaults.
type PruneCommand struct {
	MinConfidence float64 `json:"min_confidence"`
	MaxAgeDays    int     `json:"max_age_days"`
}

// PruneResult reports how many examples a prune removed.
type PruneResult struct {
	Deleted int `json:"deleted"`
}

// Stats summarizes the knowledge base.
type Stats struct {
	Total             int            `json:"total"`
	Validated         int            `json:"validated"`
	ByDocumentType    map[string]int `json:"by_document_type"`
	ByCarrier         map[string]int `json:"by_carrier"`
	AverageConfidence float64        `json:"average_confidence"`
}

// ShouldAdd reports whether an extraction qualifies for the knowledge base:
// confidence of at least 0.85 with no validation errors.
func ShouldAdd(confidence float64, validationErrors []string) bool {
	return confidence >= MinAddConfidence && len(validationErrors) == 0
}

// Snippet normalizes line endings, collapses whitespace runs within lines and
// blank-line runs between them, trims, and truncates text to
// MaxSnippetLength characters.
func Snippet(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if blank {
				b.WriteByte('\n')
			}
		}
		b.WriteString(line)
		blank = false
	}

	runes := []rune(b.String())
	if len(runes) > MaxSnippetLength {
		return strings.TrimSpace(string(runes[:MaxSnippetLength]))
	}
	return string(runes)
}

func hasCarrier(carrier string) bool {
	return carrier != "" && carrier != "unknown"
}
