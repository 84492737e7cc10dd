// Package fixed provides a fixed-size text splitter.
package fixed

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter cuts text into windows of chunkSize runes. Adjacent windows
// share overlap runes.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new fixed splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Name returns the strategy name.
func (s *Splitter) Name() string {
	return string(domain.SplitterFixed)
}

// Split returns the chunks of text in order. Empty text produces no chunks.
func (s *Splitter) Split(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := s.chunkSize - s.overlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))

		// The last window already reaches the end of the text.
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
