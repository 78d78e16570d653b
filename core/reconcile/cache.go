package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry holds trackers keyed by source name.
type Registry struct {
	mu      sync.RWMutex
	syncers map[string]Syncer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{syncers: make(map[string]Syncer)}
}

// Register adds s. Names must be unique.
func (r *Registry) Register(s Syncer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.syncers[s.Name()]; exists {
		return fmt.Errorf("source %s already registered", s.Name())
	}
	r.syncers[s.Name()] = s
	return nil
}

// Get returns the syncer registered under name.
func (r *Registry) Get(name string) (Syncer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.syncers[name]
	return s, ok
}

// Names returns the registered source names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.syncers))
	for name := range r.syncers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SyncAll reconciles every registered source concurrently.
// Reports are returned in name order; the first error cancels the rest.
func (r *Registry) SyncAll(ctx context.Context) ([]*Report, error) {
	names := r.Names()
	reports := make([]*Report, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		s, _ := r.Get(name)
		g.Go(func() error {
			report, err := s.Sync(gctx)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
