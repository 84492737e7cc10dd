package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// ProgressFunc is notified when a document base operation makes progress.
// It carries no payload; observers re-read state on each call.
type ProgressFunc func()

// Notify invokes the callback when set.
func (f ProgressFunc) Notify() {
	if f != nil {
		f()
	}
}

// DocumentBase ingests and removes sources of a single document base.
// Callers serialize operations on one instance.
type DocumentBase interface {
	// ID returns the base uuid.
	ID() string

	// Add ingests a source. An existing source with the same uuid is
	// deleted first. Folders become visible before they are populated.
	Add(ctx context.Context, id string, sourceType domain.SourceType, origin string, progress ProgressFunc) (string, error)

	// Delete removes a source and every chunk row it owns.
	Delete(ctx context.Context, id string, progress ProgressFunc) error

	// Documents returns a snapshot of the top-level sources in order.
	Documents() []domain.DocumentSource

	// Get resolves a top-level source or a folder child.
	Get(id string) (domain.DocumentSource, error)

	// Query embeds text and returns the k most similar chunks.
	Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error)
}
