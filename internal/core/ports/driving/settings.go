package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetSplitter configures the chunking strategy.
	SetSplitter(strategy domain.SplitterStrategy, chunkSize, overlap int) error

	// Validate checks if current settings are usable.
	Validate() error

	// ValidateEmbeddingConfig checks the configured embedding provider answers.
	ValidateEmbeddingConfig(ctx context.Context) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
