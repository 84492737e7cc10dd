package driven

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Loader turns a leaf origin into plain text.
type Loader interface {
	// IsParseable reports whether the loader can handle the origin.
	// It must not perform I/O beyond cheap checks such as the file extension.
	IsParseable(sourceType domain.SourceType, origin string) bool

	// Load reads the origin and returns its text.
	// For urls the raw response body is returned so callers can read the <title>.
	Load(ctx context.Context, sourceType domain.SourceType, origin string) (string, error)
}

// Extractor converts the bytes of one file format into plain text.
type Extractor interface {
	// Extensions returns the lower-case file extensions handled, including the dot.
	Extensions() []string

	// Extract returns the text content of the document.
	Extract(ctx context.Context, content []byte) (string, error)
}
