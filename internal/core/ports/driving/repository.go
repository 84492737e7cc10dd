package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Repository manages the set of document bases.
type Repository interface {
	// List returns every document base.
	List(ctx context.Context) ([]domain.DocumentBase, error)

	// Get returns a snapshot of one base.
	Get(ctx context.Context, id string) (*domain.DocumentBase, error)

	// Create registers a new base and returns its uuid.
	Create(ctx context.Context, name, engine, model string) (string, error)

	// Rename changes the display name of a base.
	Rename(ctx context.Context, id, name string) error

	// Delete removes a base and drops its vector store.
	Delete(ctx context.Context, id string) error

	// AddDocument ingests a new source into a base and returns its uuid.
	AddDocument(ctx context.Context, baseID string, sourceType domain.SourceType, origin string, progress ProgressFunc) (string, error)

	// RemoveDocument deletes a source from a base.
	RemoveDocument(ctx context.Context, baseID, docID string, progress ProgressFunc) error

	// Query searches a base for chunks similar to text.
	Query(ctx context.Context, baseID, text string, k int) ([]domain.QueryResult, error)

	// IsEmbeddingAvailable reports whether an embedder can be built for the pair.
	IsEmbeddingAvailable(engine, model string) bool
}
