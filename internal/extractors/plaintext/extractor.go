// Package plaintext provides an Extractor for text files that need no conversion.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and source files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{
		".txt", ".text", ".log",
		".csv", ".tsv",
		".json", ".yaml", ".yml", ".toml", ".xml", ".ini",
		".go", ".py", ".rs", ".java", ".c", ".h", ".cpp", ".hpp",
		".rb", ".sh", ".sql", ".js", ".jsx", ".ts", ".tsx", ".css",
	}
}

// Extract returns the content as text, normalising line endings.
// Content that is not valid UTF-8 is rejected.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", domain.ErrInvalidInput
	}
	text := strings.TrimPrefix(string(content), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, nil
}
