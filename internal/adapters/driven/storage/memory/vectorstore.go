package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure the vector store types implement the interfaces.
var (
	_ driven.VectorStoreConnector = (*VectorStores)(nil)
	_ driven.VectorStore          = (*VectorStore)(nil)
)

var (
	errTxOpen    = errors.New("transaction already open")
	errNoTx      = errors.New("no open transaction")
	errStoreGone = errors.New("vector store closed")
)

// VectorStoreStats counts calls made against one store, committed or not.
type VectorStoreStats struct {
	Begins  int
	Commits int
	Inserts int
	Deletes int
}

type vectorRow struct {
	sourceUUID string
	candidate  similarity.Candidate
}

type vectorData struct {
	rows  []vectorRow
	stats VectorStoreStats
}

// VectorStores is an in-memory implementation of driven.VectorStoreConnector.
// Every store id maps to an independent set of rows.
type VectorStores struct {
	mu     sync.RWMutex
	stores map[string]*vectorData
}

// NewVectorStores creates an empty set of in-memory vector stores.
func NewVectorStores() *VectorStores {
	return &VectorStores{
		stores: make(map[string]*vectorData),
	}
}

// Connect opens the store, creating it when missing.
func (s *VectorStores) Connect(_ context.Context, storeID string) (driven.VectorStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[storeID]; !ok {
		s.stores[storeID] = &vectorData{}
	}
	return &VectorStore{parent: s, storeID: storeID}, nil
}

// Drop removes a store and its rows.
func (s *VectorStores) Drop(_ context.Context, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, storeID)
	return nil
}

// Stats returns the operation counters of a store.
func (s *VectorStores) Stats(storeID string) VectorStoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if data, ok := s.stores[storeID]; ok {
		return data.stats
	}
	return VectorStoreStats{}
}

// RowCount returns the committed rows of a leaf. An empty sourceUUID counts all rows.
func (s *VectorStores) RowCount(storeID, sourceUUID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.stores[storeID]
	if !ok {
		return 0
	}
	if sourceUUID == "" {
		return len(data.rows)
	}
	n := 0
	for _, row := range data.rows {
		if row.sourceUUID == sourceUUID {
			n++
		}
	}
	return n
}

// VectorStore is a handle on one in-memory store. Writes made inside a
// transaction are staged and applied on commit.
type VectorStore struct {
	parent  *VectorStores
	storeID string

	mu     sync.Mutex
	inTx   bool
	staged []func(*vectorData)
	closed bool
}

// BeginTransaction starts staging writes.
func (v *VectorStore) BeginTransaction(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errStoreGone
	}
	if v.inTx {
		return errTxOpen
	}
	v.inTx = true
	v.parent.apply(v.storeID, func(d *vectorData) { d.stats.Begins++ })
	return nil
}

// CommitTransaction applies staged writes.
func (v *VectorStore) CommitTransaction(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errStoreGone
	}
	if !v.inTx {
		return errNoTx
	}
	staged := v.staged
	v.parent.apply(v.storeID, func(d *vectorData) {
		for _, op := range staged {
			op(d)
		}
		d.stats.Commits++
	})
	v.staged = nil
	v.inTx = false
	return nil
}

// Insert stores one chunk row.
func (v *VectorStore) Insert(_ context.Context, sourceUUID, content string, vector []float32, meta domain.ChunkMetadata) error {
	row := vectorRow{
		sourceUUID: sourceUUID,
		candidate: similarity.Candidate{
			Content:  content,
			Vector:   append([]float32(nil), vector...),
			Metadata: meta,
		},
	}
	return v.write(func(d *vectorData) {
		d.rows = append(d.rows, row)
	}, func(st *VectorStoreStats) { st.Inserts++ })
}

// Delete removes every row of a leaf.
func (v *VectorStore) Delete(_ context.Context, sourceUUID string) error {
	return v.write(func(d *vectorData) {
		kept := d.rows[:0]
		for _, row := range d.rows {
			if row.sourceUUID != sourceUUID {
				kept = append(kept, row)
			}
		}
		d.rows = kept
	}, func(st *VectorStoreStats) { st.Deletes++ })
}

// Query returns the k committed rows most similar to vector.
func (v *VectorStore) Query(_ context.Context, vector []float32, k int) ([]domain.QueryResult, error) {
	v.mu.Lock()
	closed := v.closed
	v.mu.Unlock()
	if closed {
		return nil, errStoreGone
	}

	v.parent.mu.RLock()
	defer v.parent.mu.RUnlock()
	data, ok := v.parent.stores[v.storeID]
	if !ok {
		return nil, nil
	}
	candidates := make([]similarity.Candidate, len(data.rows))
	for i, row := range data.rows {
		candidates[i] = row.candidate
	}
	return similarity.TopK(vector, candidates, k), nil
}

// Close discards any uncommitted writes.
func (v *VectorStore) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.staged = nil
	v.inTx = false
	v.closed = true
	return nil
}

// write applies op now, or on commit inside a transaction. Calls are
// counted immediately either way.
func (v *VectorStore) write(op func(*vectorData), count func(*VectorStoreStats)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errStoreGone
	}
	v.parent.apply(v.storeID, func(d *vectorData) { count(&d.stats) })
	if v.inTx {
		v.staged = append(v.staged, op)
		return nil
	}
	v.parent.apply(v.storeID, op)
	return nil
}

func (s *VectorStores) apply(storeID string, op func(*vectorData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.stores[storeID]
	if !ok {
		data = &vectorData{}
		s.stores[storeID] = data
	}
	op(data)
}
