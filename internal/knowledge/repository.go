package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
)

type pgStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store backed by the knowledge_examples table.
func NewPostgresStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) FewShot(ctx context.Context, c Criteria) ([]Example, error) {
	alias := projection.Alias()
	q := fmt.Sprintf(`
		SELECT %[1]s FROM %[2]s
		WHERE %[3]s.validated
		  AND (%[3]s.document_type = $2 OR ($3 AND %[3]s.carrier = $1))
		ORDER BY
			CASE
				WHEN $3 AND %[3]s.carrier = $1 AND %[3]s.document_type = $2 THEN 0
				WHEN $3 AND %[3]s.carrier = $1 THEN 1
				ELSE 2
			END,
			%[3]s.confidence_score DESC,
			%[3]s.validated_date DESC,
			%[3]s.id
		LIMIT $4`,
		projection.Columns(), projection.From(), alias,
	)

	args := []any{c.Carrier, string(c.DocumentType), hasCarrier(c.Carrier), c.Limit}
	examples, err := repository.QueryMany(ctx, s.db, q, args, scanExample)
	if err != nil {
		return nil, fmt.Errorf("query few-shot examples: %w", err)
	}
	return examples, nil
}

func (s *pgStore) Insert(ctx context.Context, e Example) (*Example, error) {
	q := fmt.Sprintf(`
		INSERT INTO knowledge_examples(id, document_type, carrier, document_snippet, extracted_data, validated, validated_by, validated_date, usage_count, confidence_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		projection.Returning(),
	)

	args := []any{
		e.ID,
		string(e.DocumentType),
		e.Carrier,
		e.DocumentSnippet,
		[]byte(e.ExtractedData),
		e.Validated,
		e.ValidatedBy,
		e.ValidatedDate,
		e.UsageCount,
		e.ConfidenceScore,
	}

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Example, error) {
		return repository.QueryOne(ctx, tx, q, args, scanExample)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &out, nil
}

func (s *pgStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, s.db,
		"UPDATE knowledge_examples SET usage_count = usage_count + 1 WHERE id = $1",
		id,
	)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (s *pgStore) Stale(ctx context.Context, minConfidence float64, cutoff time.Time) ([]uuid.UUID, error) {
	q := `
		SELECT id FROM knowledge_examples
		WHERE NOT validated OR confidence_score < $1 OR validated_date < $2`

	ids, err := repository.QueryMany(ctx, s.db, q, []any{minConfidence, cutoff}, func(sc repository.Scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := sc.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("query stale examples: %w", err)
	}
	return ids, nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, s.db, "DELETE FROM knowledge_examples WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (s *pgStore) Find(ctx context.Context, id uuid.UUID) (*Example, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, s.db, q, args, scanExample)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (s *pgStore) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Example], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocumentSnippet", "Carrier")
	filters.Apply(qb)

	return repository.Page(ctx, s.db, qb, page, "examples", scanExample)
}

func (s *pgStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByDocumentType: make(map[string]int),
		ByCarrier:      make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE validated), COALESCE(AVG(confidence_score), 0)
		FROM knowledge_examples`,
	).Scan(&stats.Total, &stats.Validated, &stats.AverageConfidence)
	if err != nil {
		return nil, fmt.Errorf("query example totals: %w", err)
	}

	if err := s.countBy(ctx, "document_type", stats.ByDocumentType); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "carrier", stats.ByCarrier); err != nil {
		return nil, err
	}

	return stats, nil
}

type bucket struct {
	key   string
	count int
}

// column is a fixed identifier, never caller input.
func (s *pgStore) countBy(ctx context.Context, column string, into map[string]int) error {
	q := fmt.Sprintf("SELECT %[1]s, COUNT(*) FROM knowledge_examples GROUP BY %[1]s", column)

	rows, err := repository.QueryMany(ctx, s.db, q, nil, func(sc repository.Scanner) (bucket, error) {
		var b bucket
		err := sc.Scan(&b.key, &b.count)
		return b, err
	})
	if err != nil {
		return fmt.Errorf("count examples by %s: %w", column, err)
	}

	for _, b := range rows {
		into[b.key] = b.count
	}
	return nil
}

