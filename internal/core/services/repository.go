package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure Repository implements the interface.
var _ driving.Repository = (*Repository)(nil)

// RepositoryDeps carries the collaborators shared by every base.
type RepositoryDeps struct {
	Store      driven.BaseStore
	Connector  driven.VectorStoreConnector
	Loader     driven.Loader
	Splitter   driven.Splitter
	Enumerator driven.FileEnumerator
	Embedders  driven.EmbedderFactory

	// Config supplies batching and size limits. Optional.
	Config driven.ConfigStore
}

// Repository manages document bases and persists their registries.
// Operations on one base are serialized; different bases run independently.
type Repository struct {
	deps RepositoryDeps

	mu    sync.Mutex
	bases map[string]*openBase
}

// openBase is a loaded DocumentBase with the lock that serializes its use.
type openBase struct {
	mu       sync.Mutex
	docbase  *DocumentBase
	embedder driven.Embedder
}

// NewRepository creates a repository over the given collaborators.
func NewRepository(deps RepositoryDeps) *Repository {
	return &Repository{
		deps:  deps,
		bases: make(map[string]*openBase),
	}
}

// List returns every document base.
func (r *Repository) List(ctx context.Context) ([]domain.DocumentBase, error) {
	bases, err := r.deps.Store.ListBases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bases: %w", err)
	}
	return bases, nil
}

// Get returns a snapshot of one base.
func (r *Repository) Get(ctx context.Context, id string) (*domain.DocumentBase, error) {
	ob, err := r.open(ctx, id)
	if err != nil {
		return nil, err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.docbase.Snapshot(), nil
}

// Create registers a new base and returns its uuid.
func (r *Repository) Create(ctx context.Context, name, engine, model string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: base name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	base := &domain.DocumentBase{
		UUID:            uuid.NewString(),
		Name:            name,
		EmbeddingEngine: engine,
		EmbeddingModel:  model,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.deps.Store.SaveBase(ctx, base); err != nil {
		return "", fmt.Errorf("save base: %w", err)
	}

	logger.Info("Created document base %q (%s)", name, base.UUID)
	return base.UUID, nil
}

// Rename changes the display name of a base.
func (r *Repository) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: base name is required", domain.ErrInvalidInput)
	}

	ob, err := r.open(ctx, id)
	if err != nil {
		return err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.docbase.Rename(name)
	return r.persist(ctx, ob.docbase)
}

// Delete removes a base and drops its vector store.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ob, err := r.open(ctx, id)
	if err != nil {
		return err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if err := r.deps.Store.DeleteBase(ctx, id); err != nil {
		return fmt.Errorf("delete base: %w", err)
	}

	// The registry row is gone; stop serving the cached base either way.
	r.mu.Lock()
	delete(r.bases, id)
	r.mu.Unlock()

	if ob.embedder != nil {
		if err := ob.embedder.Close(); err != nil {
			logger.Debug("Failed to close embedder for %s: %v", id, err)
		}
	}

	if err := r.deps.Connector.Drop(ctx, id); err != nil {
		return fmt.Errorf("drop vector store: %w", err)
	}

	logger.Info("Deleted document base %s", id)
	return nil
}

// AddDocument ingests a new source into a base and returns its uuid.
// The registry is persisted after the job and on every progress tick.
func (r *Repository) AddDocument(
	ctx context.Context,
	baseID string,
	sourceType domain.SourceType,
	origin string,
	progress driving.ProgressFunc,
) (string, error) {
	ob, err := r.open(ctx, baseID)
	if err != nil {
		return "", err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()

	docID, addErr := ob.docbase.Add(ctx, uuid.NewString(), sourceType, origin, r.persistOnProgress(ctx, ob.docbase, progress))
	if err := r.persist(ctx, ob.docbase); err != nil {
		if addErr != nil {
			return "", errors.Join(addErr, err)
		}
		return "", err
	}
	if addErr != nil {
		return "", addErr
	}
	return docID, nil
}

// RemoveDocument deletes a source from a base.
func (r *Repository) RemoveDocument(ctx context.Context, baseID, docID string, progress driving.ProgressFunc) error {
	ob, err := r.open(ctx, baseID)
	if err != nil {
		return err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()

	delErr := ob.docbase.Delete(ctx, docID, r.persistOnProgress(ctx, ob.docbase, progress))
	if errors.Is(delErr, domain.ErrNotFound) {
		return delErr
	}
	if err := r.persist(ctx, ob.docbase); err != nil {
		return errors.Join(delErr, err)
	}
	return delErr
}

// Query searches a base for chunks similar to text.
func (r *Repository) Query(ctx context.Context, baseID, text string, k int) ([]domain.QueryResult, error) {
	ob, err := r.open(ctx, baseID)
	if err != nil {
		return nil, err
	}
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return ob.docbase.Query(ctx, text, k)
}

// IsEmbeddingAvailable reports whether an embedder can be built for the pair.
func (r *Repository) IsEmbeddingAvailable(engine, model string) bool {
	if r.deps.Embedders == nil {
		return false
	}
	return r.deps.Embedders.IsAvailable(engine, model)
}

// Close releases the embedders of every loaded base.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, ob := range r.bases {
		if ob.embedder != nil {
			if err := ob.embedder.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close embedder for %s: %w", id, err))
			}
		}
		delete(r.bases, id)
	}
	return errors.Join(errs...)
}

// open returns the cached base or loads it from the store.
func (r *Repository) open(ctx context.Context, id string) (*openBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ob, ok := r.bases[id]; ok {
		return ob, nil
	}

	base, err := r.deps.Store.GetBase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get base %s: %w", id, err)
	}

	ob := &openBase{}
	if r.deps.Embedders != nil {
		embedder, err := r.deps.Embedders.Create(base.EmbeddingEngine, base.EmbeddingModel)
		if err != nil {
			// The base stays usable for listing and deletes.
			logger.Warn("Embedding unavailable for base %s: %v", id, err)
		} else {
			ob.embedder = embedder
		}
	}

	ob.docbase = NewDocumentBase(*base, DocumentBaseDeps{
		Loader:     r.deps.Loader,
		Splitter:   r.deps.Splitter,
		Embedder:   ob.embedder,
		Connector:  r.deps.Connector,
		Enumerator: r.deps.Enumerator,
		Config:     r.deps.Config,
	})

	r.bases[id] = ob
	return ob, nil
}

func (r *Repository) persist(ctx context.Context, db *DocumentBase) error {
	if err := r.deps.Store.SaveBase(ctx, db.Snapshot()); err != nil {
		return fmt.Errorf("save base %s: %w", db.ID(), err)
	}
	return nil
}

// persistOnProgress saves the registry before forwarding each notification.
func (r *Repository) persistOnProgress(ctx context.Context, db *DocumentBase, progress driving.ProgressFunc) driving.ProgressFunc {
	return func() {
		if err := r.persist(ctx, db); err != nil {
			logger.Warn("Failed to persist progress: %v", err)
		}
		progress.Notify()
	}
}
