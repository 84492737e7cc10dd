// Package hashing provides an offline embedder based on feature hashing.
//
// Each lower-cased word token is hashed into one of a fixed number of
// buckets with a signed count, and the result is L2-normalised. Vectors are
// deterministic and need no network access, which makes the embedder
// suitable for air-gapped machines and for tests.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashing-256"
	DefaultDimensions = 256
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Embedder hashes word tokens into a fixed-size vector.
type Embedder struct {
	model      string
	dimensions int
}

// New creates a hashing embedder with the given number of dimensions.
// Non-positive dimensions fall back to DefaultDimensions.
func New(model string, dimensions int) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{model: model, dimensions: dimensions}
}

// Embed returns the normalised hashed term vector of chunk.
func (e *Embedder) Embed(ctx context.Context, chunk string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dimensions)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(chunk), -1) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimensions))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dimensions)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the model identifier.
func (e *Embedder) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}
