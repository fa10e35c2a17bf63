package extractions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
)

// System defines the public contract for extraction domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Extraction], error)

	Find(ctx context.Context, id uuid.UUID) (*Extraction, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Extraction, error)

	// Extract runs the pipeline over the stored PDF and replaces the
	// document's extractions. The document moves to review.
	Extract(ctx context.Context, documentID uuid.UUID) (*Report, error)

	Approve(ctx context.Context, id uuid.UUID, cmd ApproveCommand) (*Extraction, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Extraction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
