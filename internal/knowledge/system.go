package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/pkg/pagination"
)

// System defines the public contract for knowledge base operations.
type System interface {
	Handler() *Handler

	// FewShotExamples never fails. Store errors are logged and produce an
	// empty list. A non-positive limit uses the configured default.
	FewShotExamples(ctx context.Context, docType dcsa.DocumentType, carrier string, limit int) []Example

	AddExample(ctx context.Context, cmd AddCommand) (*Example, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// Prune deletes examples below minConfidence, validated more than
	// maxAgeDays ago, or never validated. Non-positive arguments use the
	// configured defaults.
	Prune(ctx context.Context, minConfidence float64, maxAgeDays int) (int, error)

	Stats(ctx context.Context) (*Stats, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Example], error)

	Find(ctx context.Context, id uuid.UUID) (*Example, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type base struct {
	store      Store
	logger     *slog.Logger
	cfg        Config
	pagination pagination.Config
	now        func() time.Time
}

// New creates a knowledge System over the given store.
func New(
	store Store,
	logger *slog.Logger,
	cfg Config,
	pagination pagination.Config,
) System {
	return &base{
		store:      store,
		logger:     logger.With("system", "knowledge"),
		cfg:        cfg,
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (b *base) Handler() *Handler {
	return NewHandler(b, b.logger, b.pagination)
}

func (b *base) FewShotExamples(
	ctx context.Context,
	docType dcsa.DocumentType,
	carrier string,
	limit int,
) []Example {
	if limit <= 0 {
		limit = b.cfg.FewShotLimit
	}

	examples, err := b.store.FewShot(ctx, Criteria{
		DocumentType: docType,
		Carrier:      carrier,
		Limit:        limit,
	})
	if err != nil {
		b.logger.Error(
			"few-shot lookup failed",
			"document_type", docType,
			"carrier", carrier,
			"error", err,
		)
		return []Example{}
	}

	b.logger.Debug(
		"few-shot examples selected",
		"document_type", docType,
		"carrier", carrier,
		"count", len(examples),
	)
	return examples
}

func (b *base) AddExample(ctx context.Context, cmd AddCommand) (*Example, error) {
	if err := validateAdd(cmd); err != nil {
		return nil, err
	}

	validatedBy := cmd.ValidatedBy
	if validatedBy == "" {
		validatedBy = "system"
	}

	now := b.now()
	e, err := b.store.Insert(ctx, Example{
		ID:              uuid.New(),
		DocumentType:    cmd.DocumentType,
		Carrier:         cmd.Carrier,
		DocumentSnippet: Snippet(cmd.DocumentText),
		ExtractedData:   cmd.ExtractedData,
		Validated:       true,
		ValidatedBy:     validatedBy,
		ValidatedDate:   now,
		ConfidenceScore: cmd.ConfidenceScore,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("add example: %w", err)
	}

	b.logger.Info(
		"example added",
		"id", e.ID,
		"document_type", e.DocumentType,
		"carrier", e.Carrier,
		"confidence", e.ConfidenceScore,
	)
	return e, nil
}

func validateAdd(cmd AddCommand) error {
	if !cmd.DocumentType.Valid() {
		return fmt.Errorf("%w: document type %q", ErrInvalidExample, cmd.DocumentType)
	}
	if cmd.ConfidenceScore < 0 || cmd.ConfidenceScore > 1 {
		return fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidExample, cmd.ConfidenceScore)
	}
	if !ShouldAdd(cmd.ConfidenceScore, nil) {
		return fmt.Errorf("%w: confidence %v below %v", ErrInvalidExample, cmd.ConfidenceScore, MinAddConfidence)
	}

	var obj map[string]any
	if err := json.Unmarshal(cmd.ExtractedData, &obj); err != nil || obj == nil {
		return fmt.Errorf("%w: extracted data must be a JSON object", ErrInvalidExample)
	}
	return nil
}

func (b *base) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	if err := b.store.IncrementUsage(ctx, id); err != nil {
		return fmt.Errorf("increment usage %s: %w", id, err)
	}
	return nil
}

func (b *base) Prune(ctx context.Context, minConfidence float64, maxAgeDays int) (int, error) {
	if minConfidence <= 0 {
		minConfidence = b.cfg.MinConfidence
	}
	if maxAgeDays <= 0 {
		maxAgeDays = b.cfg.MaxAgeDays
	}

	cutoff := b.now().AddDate(0, 0, -maxAgeDays)

	ids, err := b.store.Stale(ctx, minConfidence, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune examples: %w", err)
	}

	deleted := 0
	for _, id := range ids {
		if err := b.store.Delete(ctx, id); err != nil {
			b.logger.Warn("prune delete failed", "id", id, "error", err)
			continue
		}
		deleted++
	}

	b.logger.Info(
		"knowledge base pruned",
		"candidates", len(ids),
		"deleted", deleted,
		"min_confidence", minConfidence,
		"max_age_days", maxAgeDays,
	)
	return deleted, nil
}

func (b *base) Stats(ctx context.Context) (*Stats, error) {
	return b.store.Stats(ctx)
}

func (b *base) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Example], error) {
	page.Normalize(b.pagination)
	return b.store.List(ctx, page, filters)
}

func (b *base) Find(ctx context.Context, id uuid.UUID) (*Example, error) {
	return b.store.Find(ctx, id)
}

func (b *base) Delete(ctx context.Context, id uuid.UUID) error {
	if err := b.store.Delete(ctx, id); err != nil {
		return err
	}
	b.logger.Info("example deleted", "id", id)
	return nil
}
