package extractions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/pipeline"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

// Documents supplies archived PDFs. documents.System satisfies it.
type Documents interface {
	Content(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Processor runs a PDF through the pipeline. *pipeline.Pipeline satisfies it.
type Processor interface {
	Process(ctx context.Context, pdf []byte) (*pipeline.Run, error)
}

// Learner receives approved extractions. knowledge.System satisfies it.
type Learner interface {
	AddExample(ctx context.Context, cmd knowledge.AddCommand) (*knowledge.Example, error)
}

type repo struct {
	db         *sql.DB
	docs       Documents
	pipeline   Processor
	knowledge  Learner
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an extraction repository implementing the System interface.
// learner may be nil, in which case approvals never reach the knowledge base.
func New(
	db *sql.DB,
	docs Documents,
	processor Processor,
	learner Learner,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		docs:       docs,
		pipeline:   processor,
		knowledge:  learner,
		logger:     logger.With("system", "extractions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Extraction], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Carrier", "DocumentType")
	filters.Apply(qb)

	return repository.Page(ctx, r.db, qb, page, "extractions", scanExtraction)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Extraction, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExtraction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Extraction, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "GroupIndex"}).
		WhereEquals("DocumentID", documentID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanExtraction)
	if err != nil {
		return nil, fmt.Errorf("query document extractions: %w", err)
	}
	return items, nil
}

func (r *repo) Extract(ctx context.Context, documentID uuid.UUID) (*Report, error) {
	pdf, err := r.docs.Content(ctx, documentID)
	if err != nil {
		return nil, err
	}

	run, err := r.pipeline.Process(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}

	rows, err := FromRun(documentID, run)
	if err != nil {
		return nil, err
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Extraction, error) {
		if _, err := repository.Exec(ctx, tx, "DELETE FROM extractions WHERE document_id = $1", documentID); err != nil {
			return nil, fmt.Errorf("clear extractions: %w", err)
		}

		out := make([]Extraction, 0, len(rows))
		for _, row := range rows {
			e, err := insert(ctx, tx, row)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = 'review', updated_at = NOW() WHERE id = $1",
			documentID,
		); err != nil {
			return nil, fmt.Errorf("update document status: %w", err)
		}

		return out, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"document extracted",
		"document_id", documentID,
		"pages", run.PageCount,
		"groups", len(saved),
		"extracted", len(run.Extracted()),
		"elapsed_ms", run.CompletedAt.Sub(run.StartedAt).Milliseconds(),
	)

	return &Report{
		DocumentID:  documentID,
		PageCount:   run.PageCount,
		Extractions: saved,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}, nil
}

func (r *repo) Approve(ctx context.Context, id uuid.UUID, cmd ApproveCommand) (*Extraction, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.Approvable(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE extractions
		SET validated_by = $1, validated_at = NOW()
		WHERE id = $2 AND validated_at IS NULL
		RETURNING %s`,
		projection.Returning(),
	)

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Extraction, error) {
		e, err := repository.QueryOne(ctx, tx, q, []any{cmd.ValidatedBy, id}, scanExtraction)
		if err != nil {
			return Extraction{}, err
		}
		return e, completeDocument(ctx, tx, e.DocumentID)
	})
	if err != nil {
		// the row was found above, so no match means a concurrent review won
		return nil, repository.MapError(err, ErrAlreadyReviewed, ErrDuplicate)
	}

	r.logger.Info("extraction approved", "id", e.ID, "validated_by", cmd.ValidatedBy)
	r.learn(ctx, e, cmd.ValidatedBy)
	return &e, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Extraction, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := Assess(current.DocumentType, cmd.Data)
	if err != nil {
		return nil, err
	}

	validation, err := jsonArg(&a.Validation)
	if err != nil {
		return nil, fmt.Errorf("encode validation: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE extractions
		SET data = $1, validation = $2, confidence_score = $3, status = $4,
			error = '', validated_by = $5, validated_at = NOW()
		WHERE id = $6
		RETURNING %s`,
		projection.Returning(),
	)
	args := []any{
		rawArg(a.Data),
		validation,
		a.ConfidenceScore,
		string(pipeline.StatusExtracted),
		cmd.UpdatedBy,
		id,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Extraction, error) {
		e, err := repository.QueryOne(ctx, tx, q, args, scanExtraction)
		if err != nil {
			return Extraction{}, err
		}
		return e, completeDocument(ctx, tx, e.DocumentID)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"extraction updated",
		"id", e.ID,
		"updated_by", cmd.UpdatedBy,
		"confidence", e.ConfidenceScore,
		"errors", len(a.Validation.Errors),
	)
	if current.Validated() {
		r.logger.Debug("extraction was already reviewed, knowledge base unchanged", "id", e.ID)
	} else {
		r.learn(ctx, e, cmd.UpdatedBy)
	}
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM extractions WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("extraction deleted", "id", id)
	return nil
}

// learn adds e to the knowledge base when it qualifies. Failures are logged;
// the review itself has already been committed.
func (r *repo) learn(ctx context.Context, e Extraction, by string) {
	if r.knowledge == nil {
		return
	}

	cmd, ok := e.Example(by)
	if !ok {
		r.logger.Debug("extraction not added to knowledge base", "id", e.ID, "confidence", e.ConfidenceScore)
		return
	}

	if _, err := r.knowledge.AddExample(ctx, cmd); err != nil {
		r.logger.Warn("add knowledge example failed", "id", e.ID, "error", err)
	}
}

func insert(ctx context.Context, tx *sql.Tx, e Extraction) (Extraction, error) {
	classification, err := jsonArg(&e.Classification)
	if err != nil {
		return Extraction{}, fmt.Errorf("encode classification: %w", err)
	}
	validation, err := jsonArg(e.Validation)
	if err != nil {
		return Extraction{}, fmt.Errorf("encode validation: %w", err)
	}
	metadata, err := jsonArg(e.Metadata)
	if err != nil {
		return Extraction{}, fmt.Errorf("encode metadata: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO extractions(
			document_id, group_index, start_page, end_page, document_type, carrier,
			classification, status, data, validation, confidence_score, metadata,
			source_text, error, extracted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`,
		projection.Returning(),
	)

	args := []any{
		e.DocumentID,
		e.GroupIndex,
		e.StartPage,
		e.EndPage,
		string(e.DocumentType),
		e.Carrier,
		classification,
		string(e.Status),
		rawArg(e.Data),
		validation,
		e.ConfidenceScore,
		metadata,
		e.SourceText,
		e.Error,
		e.ExtractedAt,
	}

	out, err := repository.QueryOne(ctx, tx, q, args, scanExtraction)
	if err != nil {
		return Extraction{}, fmt.Errorf("insert extraction %d: %w", e.GroupIndex, err)
	}
	return out, nil
}

// completeDocument moves a document in review to complete once no extracted
// or failed group awaits review.
func completeDocument(ctx context.Context, tx *sql.Tx, documentID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE documents SET status = 'complete', updated_at = NOW()
		WHERE id = $1 AND status = 'review'
		  AND NOT EXISTS (
			SELECT 1 FROM extractions
			WHERE document_id = $1 AND status <> 'skipped' AND validated_at IS NULL
		  )`,
		documentID,
	)
	if err != nil {
		return fmt.Errorf("complete document: %w", err)
	}
	return nil
}

