package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/query"
	"github.com/JaimeStill/lading/pkg/repository"
	"github.com/JaimeStill/lading/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "Reference")
	filters.Apply(qb)

	return repository.Page(ctx, r.db, qb, page, "documents", scanDocument)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), ContentTypePDF); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, size_bytes, page_count, storage_key, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, filename, content_type, size_bytes, page_count, storage_key, reference, status, uploaded_at, updated_at`

	insertArgs := []any{
		id,
		cmd.Filename,
		ContentTypePDF,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		cmd.Reference,
		string(StatusPending),
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename, "size_bytes", d.SizeBytes)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	err = repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) ([]byte, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download document %s: %w", id, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return data, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1",
			id, string(status),
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document status updated", "id", id, "status", status)
	return nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "document.pdf"
	}
	return url.PathEscape(name)
}
