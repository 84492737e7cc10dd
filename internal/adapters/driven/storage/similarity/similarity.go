// Package similarity ranks stored chunks against a query vector.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Cosine computes the cosine similarity between two vectors. It returns an
// error if the vectors have different lengths or either has zero magnitude.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine similarity dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("cosine similarity on empty vectors")
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, fmt.Errorf("cosine similarity with zero-magnitude vector")
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// Candidate is a stored row considered for a query.
type Candidate struct {
	Content  string
	Vector   []float32
	Metadata domain.ChunkMetadata
}

// TopK scores candidates against query and returns the k best, highest
// score first. Rows whose vectors cannot be compared are skipped.
func TopK(query []float32, candidates []Candidate, k int) []domain.QueryResult {
	results := make([]domain.QueryResult, 0, len(candidates))
	for _, c := range candidates {
		score, err := Cosine(query, c.Vector)
		if err != nil {
			continue
		}
		results = append(results, domain.QueryResult{
			Content:  c.Content,
			Score:    score,
			Metadata: c.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
