package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure BaseStore implements the interface.
var _ driven.BaseStore = (*BaseStore)(nil)

// BaseStore is an in-memory implementation of driven.BaseStore.
type BaseStore struct {
	mu    sync.RWMutex
	bases map[string]*domain.DocumentBase
}

// NewBaseStore creates a new in-memory base store.
func NewBaseStore() *BaseStore {
	return &BaseStore{
		bases: make(map[string]*domain.DocumentBase),
	}
}

// SaveBase stores or replaces a base.
func (s *BaseStore) SaveBase(_ context.Context, base *domain.DocumentBase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bases[base.UUID] = base.Clone()
	return nil
}

// GetBase retrieves a base by uuid.
func (s *BaseStore) GetBase(_ context.Context, id string) (*domain.DocumentBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	base, ok := s.bases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return base.Clone(), nil
}

// ListBases returns all bases ordered by creation time.
func (s *BaseStore) ListBases(_ context.Context) ([]domain.DocumentBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.DocumentBase, 0, len(s.bases))
	for _, base := range s.bases {
		result = append(result, *base.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].UUID < result[j].UUID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteBase removes a base.
func (s *BaseStore) DeleteBase(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bases, id)
	return nil
}
