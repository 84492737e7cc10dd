package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure DocumentBase implements the interface.
var _ driving.DocumentBase = (*DocumentBase)(nil)

var (
	// pageBreakOnly matches text made solely of page-break markers, which is
	// what a PDF without a text layer loads as.
	pageBreakOnly = regexp.MustCompile(`^(?:\s*-+Page \(\d+\) Break-+\s*)+$`)

	// htmlTitle captures the first <title> element of a web page.
	htmlTitle = regexp.MustCompile(`(?i)<title>(.*?)</title>`)
)

// DocumentBaseDeps carries the collaborators of a DocumentBase.
type DocumentBaseDeps struct {
	Loader     driven.Loader
	Splitter   driven.Splitter
	Connector  driven.VectorStoreConnector
	Enumerator driven.FileEnumerator

	// Embedder may be nil; ingestion and queries then fail with
	// domain.ErrEmbeddingUnavailable while deletes keep working.
	Embedder driven.Embedder

	// Config supplies the rag.* limits at the start of each job. Optional.
	Config driven.ConfigStore
}

// DocumentBaseOption configures a DocumentBase.
type DocumentBaseOption func(*DocumentBase)

// WithAddCommitEvery sets the number of indexed files per folder commit
// used when the config store has none.
func WithAddCommitEvery(n int) DocumentBaseOption {
	return func(b *DocumentBase) {
		if n > 0 {
			b.addCommitEvery = n
		}
	}
}

// WithDeleteCommitEvery sets the number of removed leaves per delete commit
// used when the config store has none.
func WithDeleteCommitEvery(n int) DocumentBaseOption {
	return func(b *DocumentBase) {
		if n > 0 {
			b.deleteCommitEvery = n
		}
	}
}

// WithMaxDocumentSizeMB sets the size limit used when the config store has none.
func WithMaxDocumentSizeMB(n int) DocumentBaseOption {
	return func(b *DocumentBase) {
		if n > 0 {
			b.maxDocumentSizeMB = n
		}
	}
}

// WithIDGenerator replaces the uuid generator used for folder children.
func WithIDGenerator(fn func() string) DocumentBaseOption {
	return func(b *DocumentBase) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// DocumentBase ingests sources into, and removes them from, the vector
// store of one document base. It keeps the in-memory source registry in
// step with what has been committed to the store.
//
// A DocumentBase is not safe for concurrent use; callers serialize.
type DocumentBase struct {
	base *domain.DocumentBase

	loader     driven.Loader
	splitter   driven.Splitter
	embedder   driven.Embedder
	connector  driven.VectorStoreConnector
	enumerator driven.FileEnumerator
	config     driven.ConfigStore

	addCommitEvery    int
	deleteCommitEvery int
	maxDocumentSizeMB int
	newID             func() string
}

// NewDocumentBase creates an orchestrator over base.
func NewDocumentBase(base domain.DocumentBase, deps DocumentBaseDeps, opts ...DocumentBaseOption) *DocumentBase {
	b := &DocumentBase{
		base:              &base,
		loader:            deps.Loader,
		splitter:          deps.Splitter,
		embedder:          deps.Embedder,
		connector:         deps.Connector,
		enumerator:        deps.Enumerator,
		config:            deps.Config,
		addCommitEvery:    domain.DefaultAddCommitEvery,
		deleteCommitEvery: domain.DefaultDeleteCommitEvery,
		maxDocumentSizeMB: domain.DefaultMaxDocumentSizeMB,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the base uuid.
func (b *DocumentBase) ID() string {
	return b.base.UUID
}

// Name returns the base display name.
func (b *DocumentBase) Name() string {
	return b.base.Name
}

// Rename changes the base display name.
func (b *DocumentBase) Rename(name string) {
	b.base.Name = name
	b.base.UpdatedAt = time.Now()
}

// Snapshot returns a deep copy of the base and its registry.
func (b *DocumentBase) Snapshot() *domain.DocumentBase {
	return b.base.Clone()
}

// Documents returns a snapshot of the top-level sources in order.
func (b *DocumentBase) Documents() []domain.DocumentSource {
	return b.base.Clone().Documents
}

// Get resolves a top-level source or a folder child.
func (b *DocumentBase) Get(id string) (domain.DocumentSource, error) {
	src, ok := b.base.Find(id)
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return domain.CloneSource(src), nil
}

// Add ingests a source and returns its id.
//
// An existing source with the same id is deleted first. A folder is
// appended to the registry before its files are indexed and notifies
// progress once on insertion. A file or url is appended only after its
// chunks are stored; on failure it never appears.
func (b *DocumentBase) Add(
	ctx context.Context,
	id string,
	sourceType domain.SourceType,
	origin string,
	progress driving.ProgressFunc,
) (string, error) {
	src, err := domain.NewSource(id, sourceType, origin)
	if err != nil {
		return "", err
	}

	if b.base.IndexOf(id) >= 0 {
		logger.Debug("Replacing existing document %s", id)
		if err := b.Delete(ctx, id, nil); err != nil {
			return "", fmt.Errorf("replace document %s: %w", id, err)
		}
	}

	switch s := src.(type) {
	case *domain.Container:
		b.base.Documents = append(b.base.Documents, s)
		b.touch()
		progress.Notify()
		if err := b.AddFolder(ctx, s, progress); err != nil {
			return "", err
		}
	case *domain.Leaf:
		if err := b.AddDocument(ctx, s, nil, progress); err != nil {
			return "", err
		}
		b.base.Documents = append(b.base.Documents, s)
		b.touch()
	}

	logger.Info("Added document %q to database %q", origin, b.base.Name)
	return id, nil
}

// AddDocument loads, splits, embeds and stores one leaf.
//
// When store is nil a handle is opened for the call and closed afterwards.
// No transaction is begun or committed here; callers that pass a store
// own its transaction. Progress is notified once all chunks are stored.
func (b *DocumentBase) AddDocument(
	ctx context.Context,
	leaf *domain.Leaf,
	store driven.VectorStore,
	progress driving.ProgressFunc,
) error {
	if !b.loader.IsParseable(leaf.Type(), leaf.Origin()) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, leaf.Origin())
	}

	logger.Debug("Processing document [%s] %s", leaf.Type(), leaf.Origin())

	text, err := b.loader.Load(ctx, leaf.Type(), leaf.Origin())
	if err != nil {
		if errors.Is(err, domain.ErrLoadFailure) || errors.Is(err, domain.ErrDocumentTooLarge) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrLoadFailure, leaf.Origin(), err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || pageBreakOnly.MatchString(trimmed) {
		return fmt.Errorf("%w: %s", domain.ErrEmptyDocument, leaf.Origin())
	}

	limitMB := b.configured(keyMaxDocumentSizeMB, b.maxDocumentSizeMB)
	if utf8.RuneCountInString(text) > limitMB*1024*1024 {
		return fmt.Errorf("%w (max %dMB): %s", domain.ErrDocumentTooLarge, limitMB, leaf.Origin())
	}

	if leaf.Type() == domain.SourceTypeURL {
		if m := htmlTitle.FindStringSubmatch(text); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				leaf.SetTitle(title)
			}
		}
	}

	if b.embedder == nil {
		return fmt.Errorf("embed %s: %w", leaf.Origin(), domain.ErrEmbeddingUnavailable)
	}

	chunks, err := b.splitter.Split(ctx, text)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}

	// Embedding is strictly sequential.
	embedded := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := b.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk: %w", err)
		}
		embedded = append(embedded, domain.Chunk{Content: chunk, Embedding: vector})
	}

	if store == nil {
		store, err = b.connector.Connect(ctx, b.base.UUID)
		if err != nil {
			return fmt.Errorf("connect vector store: %w", err)
		}
		defer store.Close() //nolint:errcheck
	}

	meta := domain.ChunkMetadata{
		UUID:  leaf.ID(),
		Type:  leaf.Type(),
		Title: leaf.Title(),
		URL:   leaf.Origin(),
	}
	for _, chunk := range embedded {
		if err := store.Insert(ctx, leaf.ID(), chunk.Content, chunk.Embedding, meta); err != nil {
			// Drop rows already written for this leaf.
			if cleanupErr := store.Delete(ctx, leaf.ID()); cleanupErr != nil {
				logger.Debug("Failed to clean up %s: %v", leaf.ID(), cleanupErr)
			}
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	progress.Notify()
	return nil
}

// AddFolder indexes every file beneath the container's folder.
//
// Files that fail are logged and skipped. Successful files are committed
// in batches of addCommitEvery, each followed by a progress notification,
// and a final commit and notification are always issued. Enumerator and
// store failures abort the job; the container keeps the committed items.
func (b *DocumentBase) AddFolder(ctx context.Context, container *domain.Container, progress driving.ProgressFunc) error {
	if len(container.Items) > 0 {
		return fmt.Errorf("%w: folder %s is already populated", domain.ErrInvalidInput, container.Origin())
	}

	every := b.configured(keyAddCommitEvery, b.addCommitEvery)

	files, err := b.enumerator.ListFilesRecursively(ctx, container.Origin())
	if err != nil {
		return fmt.Errorf("list folder %s: %w", container.Origin(), err)
	}

	store, err := b.connector.Connect(ctx, b.base.UUID)
	if err != nil {
		return fmt.Errorf("connect vector store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	if err := store.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Leaves indexed since the last commit join the container once durable.
	var pending []*domain.Leaf
	commit := func() error {
		if err := store.CommitTransaction(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		for _, leaf := range pending {
			container.AddItem(leaf)
		}
		pending = pending[:0]
		b.touch()
		progress.Notify()
		return nil
	}

	added, skipped := 0, 0
	for _, file := range files {
		leaf := domain.NewLeaf(b.newID(), domain.SourceTypeFile, file)
		if err := b.AddDocument(ctx, leaf, store, nil); err != nil {
			logger.Warn("Skipping %s: %v", file, err)
			skipped++
			continue
		}
		pending = append(pending, leaf)

		added++
		if added%every == 0 {
			if err := commit(); err != nil {
				return err
			}
			if err := store.BeginTransaction(ctx); err != nil {
				return fmt.Errorf("begin transaction: %w", err)
			}
		}
	}

	if err := commit(); err != nil {
		return err
	}

	logger.Info("Indexed %d of %d files from %s (%d skipped)", added, len(files), container.Origin(), skipped)
	return nil
}

// Delete removes a source and every chunk row it owns.
//
// A folder's children are deleted in batches of deleteCommitEvery with a
// progress notification after each batch commit. The container's own id
// never addresses rows and is not sent to the store.
func (b *DocumentBase) Delete(ctx context.Context, id string, progress driving.ProgressFunc) error {
	index := b.base.IndexOf(id)
	if index < 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc := b.base.Documents[index]
	every := b.configured(keyDeleteCommitEvery, b.deleteCommitEvery)

	var targets []string
	container, isContainer := doc.(*domain.Container)
	if isContainer {
		targets = container.ItemIDs()
	} else {
		targets = []string{doc.ID()}
	}

	store, err := b.connector.Connect(ctx, b.base.UUID)
	if err != nil {
		return fmt.Errorf("connect vector store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	if err := store.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Children removed since the last commit leave the container once durable.
	var pending []string
	commit := func() error {
		if err := store.CommitTransaction(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		for _, childID := range pending {
			container.RemoveItem(childID)
		}
		pending = pending[:0]
		return nil
	}

	deleted := 0
	for _, target := range targets {
		if err := store.Delete(ctx, target); err != nil {
			return fmt.Errorf("delete %s: %w", target, err)
		}
		if !isContainer {
			continue
		}
		pending = append(pending, target)

		deleted++
		if deleted%every == 0 {
			if err := commit(); err != nil {
				return err
			}
			progress.Notify()
			if err := store.BeginTransaction(ctx); err != nil {
				return fmt.Errorf("begin transaction: %w", err)
			}
		}
	}

	if err := commit(); err != nil {
		return err
	}
	b.base.Documents = append(b.base.Documents[:index], b.base.Documents[index+1:]...)
	b.touch()
	progress.Notify()

	logger.Info("Deleted document %s from database %q", id, b.base.Name)
	return nil
}

// Query embeds text and returns the k most similar chunks.
func (b *DocumentBase) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: result limit must be positive", domain.ErrInvalidInput)
	}
	if b.embedder == nil {
		return nil, fmt.Errorf("query: %w", domain.ErrEmbeddingUnavailable)
	}

	vector, err := b.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	store, err := b.connector.Connect(ctx, b.base.UUID)
	if err != nil {
		return nil, fmt.Errorf("connect vector store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	results, err := store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return results, nil
}

// configured reads a positive rag.* value from config, or returns fallback.
func (b *DocumentBase) configured(key string, fallback int) int {
	if b.config != nil {
		if v := b.config.GetInt(key); v > 0 {
			return v
		}
	}
	return fallback
}

func (b *DocumentBase) touch() {
	b.base.UpdatedAt = time.Now()
}
