package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// --- Mock implementations for document base testing ---

// mockLoader implements driven.Loader for testing.
type mockLoader struct {
	texts       map[string]string
	errs        map[string]error
	unsupported map[string]bool
	loads       []string
}

func newMockLoader() *mockLoader {
	return &mockLoader{
		texts:       make(map[string]string),
		errs:        make(map[string]error),
		unsupported: make(map[string]bool),
	}
}

func (m *mockLoader) IsParseable(_ domain.SourceType, origin string) bool {
	return !m.unsupported[origin]
}

func (m *mockLoader) Load(_ context.Context, _ domain.SourceType, origin string) (string, error) {
	m.loads = append(m.loads, origin)
	if err, ok := m.errs[origin]; ok {
		return "", err
	}
	text, ok := m.texts[origin]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

// mockSplitter implements driven.Splitter by cutting on "|".
type mockSplitter struct {
	err error
}

func (m *mockSplitter) Name() string { return "mock" }

func (m *mockSplitter) Split(_ context.Context, text string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return strings.Split(text, "|"), nil
}

// mockEmbedder implements driven.Embedder with deterministic two-dimensional vectors.
type mockEmbedder struct {
	mu     sync.Mutex
	calls  []string
	err    error
	closed bool
}

func (m *mockEmbedder) Embed(_ context.Context, chunk string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, chunk)
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(chunk)), 1}, nil
}

func (m *mockEmbedder) Dimensions() int   { return 2 }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

// mockEmbedderFactory implements driven.EmbedderFactory.
type mockEmbedderFactory struct {
	embedder *mockEmbedder
	err      error
}

func (m *mockEmbedderFactory) Create(_, _ string) (driven.Embedder, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.embedder, nil
}

func (m *mockEmbedderFactory) IsAvailable(engine, _ string) bool {
	return m.err == nil && engine != ""
}

// mockEnumerator implements driven.FileEnumerator for testing.
type mockEnumerator struct {
	files []string
	err   error
}

func (m *mockEnumerator) ListFilesRecursively(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.files, nil
}

// faultyConnector wraps the in-memory stores and injects failures.
type faultyConnector struct {
	*memory.VectorStores
	connectErr error
	commitErr  error
	insertErr  error
	dropErr    error
	failAfter  int // commits allowed before commitErr is returned
	commits    int
}

func (f *faultyConnector) Connect(ctx context.Context, storeID string) (driven.VectorStore, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	store, err := f.VectorStores.Connect(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &faultyStore{VectorStore: store, parent: f}, nil
}

func (f *faultyConnector) Drop(ctx context.Context, storeID string) error {
	if f.dropErr != nil {
		return f.dropErr
	}
	return f.VectorStores.Drop(ctx, storeID)
}

type faultyStore struct {
	driven.VectorStore
	parent *faultyConnector
}

func (s *faultyStore) CommitTransaction(ctx context.Context) error {
	if s.parent.commitErr != nil && s.parent.commits >= s.parent.failAfter {
		return s.parent.commitErr
	}
	s.parent.commits++
	return s.VectorStore.CommitTransaction(ctx)
}

func (s *faultyStore) Insert(ctx context.Context, sourceUUID, content string, vector []float32, meta domain.ChunkMetadata) error {
	if s.parent.insertErr != nil && strings.Contains(content, "poison") {
		return s.parent.insertErr
	}
	return s.VectorStore.Insert(ctx, sourceUUID, content, vector, meta)
}

// progressCounter records progress notifications.
type progressCounter struct {
	count int
}

func (p *progressCounter) notify() {
	p.count++
}

// sequentialIDs returns an id generator producing leaf-1, leaf-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "leaf-" + strconv.Itoa(n)
	}
}
