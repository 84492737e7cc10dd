// Package sentence provides a splitter that groups whole sentences.
package sentence

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// sentencePattern matches a run of text ending in terminal punctuation,
// or a trailing run with none.
var sentencePattern = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)

// Splitter groups sentencesPerChunk sentences per chunk, repeating
// overlapSentences sentences between neighbours.
type Splitter struct {
	sentencesPerChunk int
	overlapSentences  int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithSentencesPerChunk sets the number of sentences per chunk.
func WithSentencesPerChunk(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.sentencesPerChunk = n
		}
	}
}

// WithOverlapSentences sets how many sentences adjacent chunks share.
func WithOverlapSentences(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlapSentences = n
		}
	}
}

// New creates a sentence splitter.
func New(opts ...Option) *Splitter {
	s := &Splitter{sentencesPerChunk: domain.DefaultSentencesPerChunk}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlapSentences >= s.sentencesPerChunk {
		s.overlapSentences = s.sentencesPerChunk - 1
	}
	return s
}

// Name returns the strategy name.
func (s *Splitter) Name() string {
	return string(domain.SplitterSentence)
}

// Split returns chunks of whole sentences joined by single spaces.
func (s *Splitter) Split(ctx context.Context, text string) ([]string, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []string
	for i := 0; i < len(sentences); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + s.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, strings.Join(sentences[i:end], " "))
		if end == len(sentences) {
			break
		}
		i = end - s.overlapSentences
	}
	return chunks, nil
}

// splitSentences returns the trimmed, non-empty sentences of text.
func splitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = strings.Join(strings.Fields(m), " "); m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}
