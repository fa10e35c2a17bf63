// Package extractions stores pipeline results for registered documents and
// carries them through human review. Approved extractions that meet the
// knowledge base bar are fed back as few-shot examples.
package extractions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/classifier"
	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/pipeline"
)

// Extraction is the stored outcome of one page group of a document.
// Skipped and failed groups are stored too, without data.
type Extraction struct {
	ID              uuid.UUID              `json:"id"`
	DocumentID      uuid.UUID              `json:"document_id"`
	GroupIndex      int                    `json:"group_index"`
	StartPage       int                    `json:"start_page"`
	EndPage         int                    `json:"end_page"`
	DocumentType    dcsa.DocumentType      `json:"document_type"`
	Carrier         string                 `json:"carrier"`
	Classification  classifier.Result      `json:"classification"`
	Status          pipeline.Status        `json:"status"`
	Data            json.RawMessage        `json:"data"`
	Validation      *dcsa.ValidationResult `json:"validation"`
	ConfidenceScore float64                `json:"confidence_score"`
	Metadata        *extraction.Metadata   `json:"metadata"`
	SourceText      string                 `json:"-"`
	Error           string                 `json:"error,omitempty"`
	ExtractedAt     time.Time              `json:"extracted_at"`
	ValidatedBy     *string                `json:"validated_by"`
	ValidatedAt     *time.Time             `json:"validated_at"`
}

// Validated reports whether a reviewer has approved or corrected e.
func (e Extraction) Validated() bool {
	return e.ValidatedAt != nil
}

// Approvable returns nil when e carries extracted data that no reviewer
// has approved or corrected yet.
func (e Extraction) Approvable() error {
	if e.Status != pipeline.StatusExtracted {
		return fmt.Errorf("%w: status %s", ErrNotExtracted, e.Status)
	}
	if e.Validated() {
		return fmt.Errorf("%w at %s", ErrAlreadyReviewed, e.ValidatedAt.Format(time.RFC3339))
	}
	return nil
}

// Report summarizes a document extraction run.
type Report struct {
	DocumentID  uuid.UUID    `json:"document_id"`
	PageCount   int          `json:"page_count"`
	Extractions []Extraction `json:"extractions"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// ApproveCommand confirms an extraction as produced by the model.
type ApproveCommand struct {
	ValidatedBy string `json:"validated_by"`
}

// UpdateCommand replaces the extracted data with a reviewer's correction.
// UpdatedBy is stored as validated_by.
type UpdateCommand struct {
	Data      json.RawMessage `json:"data"`
	UpdatedBy string          `json:"updated_by"`
}

// Assessment is corrected data after validation and scoring.
type Assessment struct {
	Data            json.RawMessage
	Validation      dcsa.ValidationResult
	ConfidenceScore float64
	UncertainFields []string
}

// FromRun converts pipeline outcomes into unsaved rows for documentID.
func FromRun(documentID uuid.UUID, run *pipeline.Run) ([]Extraction, error) {
	rows := make([]Extraction, 0, len(run.Groups))

	for _, g := range run.Groups {
		e := Extraction{
			DocumentID:     documentID,
			GroupIndex:     g.Index,
			StartPage:      g.StartPage,
			EndPage:        g.EndPage,
			DocumentType:   g.Classification.DocumentType,
			Carrier:        g.Classification.Carrier,
			Classification: g.Classification,
			Status:         g.Status,
			SourceText:     g.Text,
			Error:          g.Error,
			ExtractedAt:    run.CompletedAt,
		}

		if r := g.Extraction; r != nil {
			data, err := json.Marshal(r.Data)
			if err != nil {
				return nil, fmt.Errorf("encode group %d data: %w", g.Index, err)
			}
			validation := r.Validation
			metadata := r.Metadata

			e.Data = data
			e.Validation = &validation
			e.ConfidenceScore = r.ConfidenceScore
			e.Metadata = &metadata
		}

		rows = append(rows, e)
	}

	return rows, nil
}

// Assess validates and scores reviewer-supplied data for t. The stored
// documentType is forced to t.
func Assess(t dcsa.DocumentType, data json.RawMessage) (*Assessment, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: document type %q", ErrNotExtractable, t)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: data must be a JSON object", ErrInvalidData)
	}
	raw["documentType"] = string(t)

	_, validation := dcsa.ValidateRaw(t, raw)
	uncertain := extraction.UncertainFields(raw)

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	return &Assessment{
		Data:            normalized,
		Validation:      validation,
		ConfidenceScore: extraction.Score(validation, len(uncertain)),
		UncertainFields: uncertain,
	}, nil
}

// Example returns the knowledge base command for e, and false when e does
// not qualify: it must be extracted, error free, and confident enough.
func (e Extraction) Example(validatedBy string) (knowledge.AddCommand, bool) {
	if e.Status != pipeline.StatusExtracted || e.Validation == nil || len(e.Data) == 0 {
		return knowledge.AddCommand{}, false
	}
	if !knowledge.ShouldAdd(e.ConfidenceScore, e.Validation.Errors) {
		return knowledge.AddCommand{}, false
	}

	return knowledge.AddCommand{
		DocumentType:    e.DocumentType,
		Carrier:         e.Carrier,
		DocumentText:    e.SourceText,
		ExtractedData:   e.Data,
		ValidatedBy:     validatedBy,
		ConfidenceScore: e.ConfidenceScore,
	}, true
}
