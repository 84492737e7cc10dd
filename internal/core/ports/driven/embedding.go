package driven

import "context"

// Embedder generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Offline feature hashing
type Embedder interface {
	// Embed generates a vector embedding for one chunk.
	Embed(ctx context.Context, chunk string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// EmbedderFactory builds embedders for the provider/model pair of a base.
type EmbedderFactory interface {
	// Create returns an embedder for the engine and model.
	// Returns domain.ErrEmbeddingUnavailable when the pair cannot be served.
	Create(engine, model string) (Embedder, error)

	// IsAvailable reports whether Create would succeed for the pair.
	IsAvailable(engine, model string) bool
}

// EmbeddingValidator checks that a provider/model pair is reachable.
type EmbeddingValidator interface {
	// ValidateEmbedding contacts the provider without embedding any document text.
	ValidateEmbedding(ctx context.Context, engine, model string) error
}
