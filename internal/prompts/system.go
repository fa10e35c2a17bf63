package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
)

// System manages per-document-type instruction overrides. At most one
// override per type is active; Source resolves it, falling back to the
// built-in default when none is.
type System interface {
	Source

	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Activate makes id the active override for its type, deactivating any
	// other override of that type in the same transaction.
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)
}
