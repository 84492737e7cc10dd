package splitters

import (
	"context"
	"sync"

	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Reloadable implements the interface.
var _ driven.Splitter = (*Reloadable)(nil)

// Reloadable delegates to a splitter that can be rebuilt while in use,
// for example after the settings file changes.
type Reloadable struct {
	build func() (driven.Splitter, error)

	mu      sync.RWMutex
	current driven.Splitter
}

// NewReloadable builds the initial splitter with build.
func NewReloadable(build func() (driven.Splitter, error)) (*Reloadable, error) {
	r := &Reloadable{build: build}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload rebuilds the splitter. On error the previous one stays active.
func (r *Reloadable) Reload() error {
	s, err := r.build()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return nil
}

// Name returns the name of the active splitter.
func (r *Reloadable) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Name()
}

// Split delegates to the active splitter.
func (r *Reloadable) Split(ctx context.Context, text string) ([]string, error) {
	r.mu.RLock()
	s := r.current
	r.mu.RUnlock()
	return s.Split(ctx, text)
}
