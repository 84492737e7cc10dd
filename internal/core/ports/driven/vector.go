package driven

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// VectorStore is the chunk store of one document base.
// Writes between BeginTransaction and CommitTransaction become durable together.
type VectorStore interface {
	// BeginTransaction opens a write transaction.
	BeginTransaction(ctx context.Context) error

	// CommitTransaction makes the open transaction durable.
	CommitTransaction(ctx context.Context) error

	// Insert stores one chunk row keyed by its leaf uuid.
	Insert(ctx context.Context, sourceUUID, content string, vector []float32, meta domain.ChunkMetadata) error

	// Delete removes every row of the leaf uuid. Removing zero rows is not an error.
	Delete(ctx context.Context, sourceUUID string) error

	// Query returns the k rows most similar to vector.
	Query(ctx context.Context, vector []float32, k int) ([]domain.QueryResult, error)

	// Close releases the handle, discarding any uncommitted transaction.
	Close() error
}

// VectorStoreConnector opens vector stores by store id (the base uuid).
type VectorStoreConnector interface {
	// Connect opens or creates the store.
	Connect(ctx context.Context, storeID string) (VectorStore, error)

	// Drop permanently removes the store and its data.
	Drop(ctx context.Context, storeID string) error
}
