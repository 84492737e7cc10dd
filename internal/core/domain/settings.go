package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond caps outbound embedding calls. Zero disables limiting.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// RAGSettings holds ingestion limits and batching.
type RAGSettings struct {
	// MaxDocumentSizeMB rejects loaded text larger than this many MiB.
	MaxDocumentSizeMB int

	// AddCommitEvery is the number of indexed files per folder commit.
	AddCommitEvery int

	// DeleteCommitEvery is the number of removed leaves per delete commit.
	DeleteCommitEvery int
}

// SplitterStrategy names a chunking strategy.
type SplitterStrategy string

// Available splitter strategies.
const (
	// SplitterFixed cuts text into fixed-size rune windows with overlap.
	SplitterFixed SplitterStrategy = "fixed"

	// SplitterSentence groups whole sentences into chunks.
	SplitterSentence SplitterStrategy = "sentence"
)

// IsValid returns true if the strategy is recognised.
func (s SplitterStrategy) IsValid() bool {
	return s == SplitterFixed || s == SplitterSentence
}

// SplitterSettings holds chunking configuration.
type SplitterSettings struct {
	// Strategy selects the splitter implementation.
	Strategy SplitterStrategy

	// ChunkSize is the target chunk size in runes (fixed strategy).
	ChunkSize int

	// Overlap is the number of runes shared by adjacent chunks (fixed strategy).
	Overlap int

	// SentencesPerChunk is the sentence count per chunk (sentence strategy).
	SentencesPerChunk int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// RAG holds ingestion settings.
	RAG RAGSettings

	// Splitter holds chunking settings.
	Splitter SplitterSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings
}

// Default ingestion values.
const (
	DefaultMaxDocumentSizeMB = 16
	DefaultAddCommitEvery    = 5
	DefaultDeleteCommitEvery = 10
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
	DefaultSentencesPerChunk = 5
)

// DefaultAppSettings returns settings with sensible defaults.
// Embedding is left unconfigured; users must choose a provider.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		RAG: RAGSettings{
			MaxDocumentSizeMB: DefaultMaxDocumentSizeMB,
			AddCommitEvery:    DefaultAddCommitEvery,
			DeleteCommitEvery: DefaultDeleteCommitEvery,
		},
		Splitter: SplitterSettings{
			Strategy:          SplitterFixed,
			ChunkSize:         DefaultChunkSize,
			Overlap:           DefaultChunkOverlap,
			SentencesPerChunk: DefaultSentencesPerChunk,
		},
		Embedding: EmbeddingSettings{},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-256",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"hashing-256": 256,
	}
}
