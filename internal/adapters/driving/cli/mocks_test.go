package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// mockRepository keeps bases in memory and records calls.
type mockRepository struct {
	bases     map[string]*domain.DocumentBase
	results   []domain.QueryResult
	available bool
	err       error

	added   []addCall
	removed []string
	queries []string
	nextID  int
}

type addCall struct {
	baseID     string
	sourceType domain.SourceType
	origin     string
}

func newMockRepository() *mockRepository {
	return &mockRepository{bases: make(map[string]*domain.DocumentBase), available: true}
}

func (m *mockRepository) addBase(id, name string, docs ...domain.DocumentSource) {
	m.bases[id] = &domain.DocumentBase{
		UUID:            id,
		Name:            name,
		EmbeddingEngine: "hashing",
		EmbeddingModel:  "hashing-256",
		Documents:       docs,
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (m *mockRepository) List(_ context.Context) ([]domain.DocumentBase, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.DocumentBase, 0, len(m.bases))
	for _, b := range m.bases {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*domain.DocumentBase, error) {
	b, ok := m.bases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b.Clone(), nil
}

func (m *mockRepository) Create(_ context.Context, name, engine, model string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	id := fmt.Sprintf("created-%d", m.nextID)
	m.addBase(id, name)
	m.bases[id].EmbeddingEngine = engine
	m.bases[id].EmbeddingModel = model
	return id, nil
}

func (m *mockRepository) Rename(_ context.Context, id, name string) error {
	b, ok := m.bases[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Name = name
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.bases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bases, id)
	return nil
}

func (m *mockRepository) AddDocument(
	_ context.Context,
	baseID string,
	sourceType domain.SourceType,
	origin string,
	progress driving.ProgressFunc,
) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.added = append(m.added, addCall{baseID: baseID, sourceType: sourceType, origin: origin})
	progress.Notify()
	return "doc-1", nil
}

func (m *mockRepository) RemoveDocument(_ context.Context, _, docID string, progress driving.ProgressFunc) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, docID)
	progress.Notify()
	return nil
}

func (m *mockRepository) Query(_ context.Context, _, text string, k int) ([]domain.QueryResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.queries = append(m.queries, text)
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockRepository) IsEmbeddingAvailable(_, _ string) bool {
	return m.available
}

// mockSettingsService holds settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	embedErr    error
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderHashing, Model: "hashing-256"}
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return domain.ErrInvalidInput
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetSplitter(strategy domain.SplitterStrategy, chunkSize, overlap int) error {
	if !strategy.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.Splitter.Strategy = strategy
	if chunkSize > 0 {
		m.settings.Splitter.ChunkSize = chunkSize
	}
	m.settings.Splitter.Overlap = overlap
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateEmbeddingConfig(_ context.Context) error {
	return m.embedErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupTestServices installs mocks and returns a cleanup func that
// restores globals and flags.
func setupTestServices() (*mockRepository, *mockSettingsService, func()) {
	repo := newMockRepository()
	settings := newMockSettingsService()
	SetServices(repo, settings)

	return repo, settings, func() {
		SetServices(nil, nil)
		bootstrap = nil
		closeServices = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		baseListJSON, baseEngine, baseModel = false, "", ""
		documentType = ""
		queryLimit, queryJSON = 5, false
		embeddingProvider, embeddingModel, embeddingAPIKey = "", "", ""
		splitterChunkSize, splitterOverlap = 0, domain.DefaultChunkOverlap
		ragMaxSizeMB, ragAddEvery, ragDeleteEvery = 0, 0, 0
	}
}
