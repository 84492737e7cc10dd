package domain

// ChunkMetadata tags every chunk row in a vector store.
type ChunkMetadata struct {
	// UUID is the owning leaf source.
	UUID string `json:"uuid"`

	// Type is the leaf source type.
	Type SourceType `json:"type"`

	// Title is the leaf title at indexing time.
	Title string `json:"title"`

	// URL is the leaf origin.
	URL string `json:"url"`
}

// Chunk is a piece of document text with its embedding.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Embedding is the vector representation.
	Embedding []float32
}

// QueryResult is a chunk returned by a similarity query.
type QueryResult struct {
	// Content is the chunk text.
	Content string

	// Score is the cosine similarity to the query vector.
	Score float64

	// Metadata identifies the leaf the chunk belongs to.
	Metadata ChunkMetadata
}
