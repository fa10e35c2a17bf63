package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
)

// System archives uploaded PDFs and tracks each document through review:
// pending until extracted, review until every extraction is approved,
// then complete.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	// Create archives the PDF and records it as pending. The blob is
	// removed again when the row cannot be written.
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Content downloads the archived PDF bytes.
	Content(ctx context.Context, id uuid.UUID) ([]byte, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
}
