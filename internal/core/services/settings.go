package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMaxDocumentSizeMB   = "rag.max_document_size_mb"
	keyAddCommitEvery      = "rag.add_commit_every"
	keyDeleteCommitEvery   = "rag.delete_commit_every"
	keySplitterStrategy    = "splitter.strategy"
	keySplitterChunkSize   = "splitter.chunk_size"
	keySplitterOverlap     = "splitter.overlap"
	keySentencesPerChunk   = "splitter.sentences_per_chunk"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyEmbedRequestsPerSec = "embedding.requests_per_second"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.EmbeddingValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// SetValidator installs the checker used by ValidateEmbeddingConfig.
func (s *SettingsService) SetValidator(v driven.EmbeddingValidator) {
	s.validator = v
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		RAG: domain.RAGSettings{
			MaxDocumentSizeMB: s.getInt(keyMaxDocumentSizeMB, defaults.RAG.MaxDocumentSizeMB),
			AddCommitEvery:    s.getInt(keyAddCommitEvery, defaults.RAG.AddCommitEvery),
			DeleteCommitEvery: s.getInt(keyDeleteCommitEvery, defaults.RAG.DeleteCommitEvery),
		},
		Splitter: domain.SplitterSettings{
			Strategy:          s.getStrategy(defaults.Splitter.Strategy),
			ChunkSize:         s.getInt(keySplitterChunkSize, defaults.Splitter.ChunkSize),
			Overlap:           s.getInt(keySplitterOverlap, defaults.Splitter.Overlap),
			SentencesPerChunk: s.getInt(keySentencesPerChunk, defaults.Splitter.SentencesPerChunk),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRequestsPerSec),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save ingestion settings
	if err := s.configStore.Set(keyMaxDocumentSizeMB, settings.RAG.MaxDocumentSizeMB); err != nil {
		return fmt.Errorf("save max document size: %w", err)
	}
	if err := s.configStore.Set(keyAddCommitEvery, settings.RAG.AddCommitEvery); err != nil {
		return fmt.Errorf("save add commit batch: %w", err)
	}
	if err := s.configStore.Set(keyDeleteCommitEvery, settings.RAG.DeleteCommitEvery); err != nil {
		return fmt.Errorf("save delete commit batch: %w", err)
	}

	// Save splitter settings
	if err := s.configStore.Set(keySplitterStrategy, string(settings.Splitter.Strategy)); err != nil {
		return fmt.Errorf("save splitter strategy: %w", err)
	}
	if err := s.configStore.Set(keySplitterChunkSize, settings.Splitter.ChunkSize); err != nil {
		return fmt.Errorf("save splitter chunk_size: %w", err)
	}
	if err := s.configStore.Set(keySplitterOverlap, settings.Splitter.Overlap); err != nil {
		return fmt.Errorf("save splitter overlap: %w", err)
	}
	if err := s.configStore.Set(keySentencesPerChunk, settings.Splitter.SentencesPerChunk); err != nil {
		return fmt.Errorf("save splitter sentences_per_chunk: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.Embedding.RequestsPerSecond > 0 {
		if err := s.configStore.Set(keyEmbedRequestsPerSec, settings.Embedding.RequestsPerSecond); err != nil {
			return fmt.Errorf("save embedding requests_per_second: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	switch provider {
	case domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetSplitter configures the chunking strategy.
func (s *SettingsService) SetSplitter(strategy domain.SplitterStrategy, chunkSize, overlap int) error {
	if !strategy.IsValid() {
		return fmt.Errorf("invalid splitter strategy: %s", strategy)
	}
	if chunkSize < 0 || overlap < 0 {
		return fmt.Errorf("%w: chunk size and overlap must not be negative", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Splitter.Strategy = strategy
	if chunkSize > 0 {
		settings.Splitter.ChunkSize = chunkSize
	}
	settings.Splitter.Overlap = overlap

	if settings.Splitter.Overlap >= settings.Splitter.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, settings.Splitter.Overlap, settings.Splitter.ChunkSize)
	}

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.RAG.MaxDocumentSizeMB <= 0 {
		return fmt.Errorf("max document size must be positive, got %d", settings.RAG.MaxDocumentSizeMB)
	}
	if settings.RAG.AddCommitEvery <= 0 || settings.RAG.DeleteCommitEvery <= 0 {
		return fmt.Errorf("commit batch sizes must be positive")
	}
	if !settings.Splitter.Strategy.IsValid() {
		return fmt.Errorf("invalid splitter strategy: %s", settings.Splitter.Strategy)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}

	return nil
}

// ValidateEmbeddingConfig checks the configured provider answers.
// Without a validator only the local configuration is checked.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return errors.New("embedding provider is not configured")
	}
	if s.validator == nil {
		return nil
	}
	return s.validator.ValidateEmbedding(ctx, settings.Embedding.Provider.String(), settings.Embedding.Model)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStrategy(defaultVal domain.SplitterStrategy) domain.SplitterStrategy {
	strategy := domain.SplitterStrategy(s.configStore.GetString(keySplitterStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
