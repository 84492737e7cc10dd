package splitters

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/splitters/fixed"
	"github.com/custodia-labs/docbase/internal/splitters/sentence"
)

// BuilderFunc creates a Splitter from chunking settings.
type BuilderFunc func(settings domain.SplitterSettings) (driven.Splitter, error)

// Registry maps strategy names to their builders.
type Registry struct {
	builders map[domain.SplitterStrategy]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.SplitterStrategy]BuilderFunc),
	}
}

// DefaultRegistry returns a registry holding the built-in strategies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.SplitterFixed, func(s domain.SplitterSettings) (driven.Splitter, error) {
		return fixed.New(fixed.WithChunkSize(s.ChunkSize), fixed.WithOverlap(s.Overlap)), nil
	})
	r.Register(domain.SplitterSentence, func(s domain.SplitterSettings) (driven.Splitter, error) {
		return sentence.New(sentence.WithSentencesPerChunk(s.SentencesPerChunk)), nil
	})
	return r
}

// Register adds a builder. A later registration replaces an earlier one.
func (r *Registry) Register(strategy domain.SplitterStrategy, builder BuilderFunc) {
	r.builders[strategy] = builder
}

// Has returns true if the strategy is registered.
func (r *Registry) Has(strategy domain.SplitterStrategy) bool {
	_, ok := r.builders[strategy]
	return ok
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Build creates the splitter named by settings.Strategy.
// An empty strategy selects fixed.
func (r *Registry) Build(settings domain.SplitterSettings) (driven.Splitter, error) {
	strategy := settings.Strategy
	if strategy == "" {
		strategy = domain.SplitterFixed
	}
	builder, ok := r.builders[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown splitter strategy %q", domain.ErrInvalidInput, strategy)
	}
	return builder(settings)
}

// New builds a splitter from the default registry.
func New(settings domain.SplitterSettings) (driven.Splitter, error) {
	return DefaultRegistry().Build(settings)
}
