package driven

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// BaseStore persists the registry of document bases and their sources.
type BaseStore interface {
	// SaveBase stores or replaces a base together with its source tree.
	SaveBase(ctx context.Context, base *domain.DocumentBase) error

	// GetBase retrieves a base by uuid.
	// Returns domain.ErrNotFound when no such base exists.
	GetBase(ctx context.Context, id string) (*domain.DocumentBase, error)

	// ListBases returns all bases ordered by creation time.
	ListBases(ctx context.Context) ([]domain.DocumentBase, error)

	// DeleteBase removes a base and its source tree.
	DeleteBase(ctx context.Context, id string) error
}
