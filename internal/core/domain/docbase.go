package domain

import "time"

// DocumentBase is a named collection of document sources sharing one
// vector store and one embedding model.
type DocumentBase struct {
	// UUID identifies the base and addresses its vector store.
	UUID string

	// Name is the human-readable name.
	Name string

	// EmbeddingEngine is the embedding provider (e.g. "openai", "ollama").
	EmbeddingEngine string

	// EmbeddingModel is the model used for every chunk of this base.
	EmbeddingModel string

	// Documents is the ordered registry of top-level sources.
	Documents []DocumentSource

	// CreatedAt is when the base was created.
	CreatedAt time.Time

	// UpdatedAt is when the base was last modified.
	UpdatedAt time.Time
}

// IndexOf returns the position of the top-level source with the given id, or -1.
func (b *DocumentBase) IndexOf(id string) int {
	for i, doc := range b.Documents {
		if doc.ID() == id {
			return i
		}
	}
	return -1
}

// Find resolves a top-level source or a container child by id.
func (b *DocumentBase) Find(id string) (DocumentSource, bool) {
	for _, doc := range b.Documents {
		if doc.ID() == id {
			return doc, true
		}
		for _, child := range doc.Children() {
			if child.UUID == id {
				return child, true
			}
		}
	}
	return nil, false
}

// Clone returns a deep copy safe to hand to persistence or callers.
func (b *DocumentBase) Clone() *DocumentBase {
	c := *b
	c.Documents = make([]DocumentSource, len(b.Documents))
	for i, doc := range b.Documents {
		c.Documents[i] = CloneSource(doc)
	}
	return &c
}
