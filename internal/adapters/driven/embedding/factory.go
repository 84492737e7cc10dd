// Package embedding builds embedders for document bases.
//
// A base records the engine and model it was created with. The Factory maps
// that pair onto one of the provider adapters, filling endpoint and
// credentials from configuration, and wraps the result with a RateLimiter.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/docbase/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/docbase/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docbase/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Configuration keys read by the factory.
const (
	keyProvider          = "embedding.provider"
	keyBaseURL           = "embedding.base_url"
	keyAPIKey            = "embedding.api_key"
	keyRequestsPerSecond = "embedding.requests_per_second"
)

// OpenAIKeyEnv is consulted when no API key is configured.
const OpenAIKeyEnv = "OPENAI_API_KEY"

// pingTimeout bounds a validation request.
const pingTimeout = 10 * time.Second

var (
	_ driven.EmbedderFactory    = (*Factory)(nil)
	_ driven.EmbeddingValidator = (*Factory)(nil)
)

// Factory creates embedders from an engine/model pair plus configuration.
type Factory struct {
	config driven.ConfigStore
	getenv func(string) string
}

// NewFactory creates a factory reading endpoints and keys from config.
// A nil config is allowed; only defaults and the environment are used then.
func NewFactory(config driven.ConfigStore) *Factory {
	return &Factory{config: config, getenv: os.Getenv}
}

// Create returns a rate-limited embedder for the engine and model.
func (f *Factory) Create(engine, model string) (driven.Embedder, error) {
	settings, err := f.settingsFor(engine, model)
	if err != nil {
		return nil, err
	}

	embedder, err := build(settings)
	if err != nil {
		return nil, err
	}

	return &rateLimited{
		Embedder: embedder,
		limiter:  NewRateLimiter(settings.RequestsPerSecond, 1),
	}, nil
}

// ValidateEmbedding checks that the provider of the pair answers.
// Providers without an endpoint always validate.
func (f *Factory) ValidateEmbedding(ctx context.Context, engine, model string) error {
	settings, err := f.settingsFor(engine, model)
	if err != nil {
		return err
	}

	embedder, err := build(settings)
	if err != nil {
		return err
	}
	defer embedder.Close()

	p, ok := embedder.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// build creates the provider adapter for resolved settings.
func build(settings domain.EmbeddingSettings) (driven.Embedder, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		embedder, err := openai.New(openai.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return embedder, nil

	default:
		return hashing.New(settings.Model, hashingDimensions(settings.Model)), nil
	}
}

// IsAvailable reports whether Create would succeed for the pair.
// It does not contact the provider.
func (f *Factory) IsAvailable(engine, model string) bool {
	_, err := f.settingsFor(engine, model)
	return err == nil
}

// settingsFor resolves the full embedding settings for a base.
func (f *Factory) settingsFor(engine, model string) (domain.EmbeddingSettings, error) {
	provider := domain.AIProvider(strings.ToLower(strings.TrimSpace(engine)))
	if !provider.IsValid() {
		return domain.EmbeddingSettings{}, fmt.Errorf("%w: unsupported engine %q", domain.ErrEmbeddingUnavailable, engine)
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := domain.EmbeddingSettings{Provider: provider, Model: model}
	if f.config != nil {
		settings.RequestsPerSecond = f.config.GetFloat(keyRequestsPerSecond)
		// Endpoint and key belong to the configured provider only.
		if domain.AIProvider(f.config.GetString(keyProvider)) == provider {
			settings.BaseURL = f.config.GetString(keyBaseURL)
			settings.APIKey = f.config.GetString(keyAPIKey)
		}
	}
	if settings.APIKey == "" && provider == domain.AIProviderOpenAI {
		settings.APIKey = f.getenv(OpenAIKeyEnv)
	}

	if !settings.IsConfigured() {
		return domain.EmbeddingSettings{}, fmt.Errorf("%w: %s requires an API key (set %s or embedding.api_key)",
			domain.ErrEmbeddingUnavailable, provider, OpenAIKeyEnv)
	}
	return settings, nil
}

// hashingDimensions parses the bucket count from names like "hashing-512".
func hashingDimensions(model string) int {
	var n int
	if _, err := fmt.Sscanf(model, "hashing-%d", &n); err != nil || n <= 0 {
		return hashing.DefaultDimensions
	}
	return n
}

// pinger is implemented by embedders that can check their endpoint.
type pinger interface {
	Ping(ctx context.Context) error
}

// retryAfterError is implemented by provider errors carrying a backoff hint.
type retryAfterError interface {
	error
	RetryAfter() (time.Duration, bool)
}

// rateLimited paces an embedder and backs off after rate-limit responses.
type rateLimited struct {
	driven.Embedder
	limiter *RateLimiter
}

func (r *rateLimited) Embed(ctx context.Context, chunk string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vec, err := r.Embedder.Embed(ctx, chunk)
	var rlErr retryAfterError
	if errors.As(err, &rlErr) {
		if wait, limited := rlErr.RetryAfter(); limited {
			r.limiter.RecordRateLimitError(wait)
		}
	}
	return vec, err
}
