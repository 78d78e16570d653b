package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"datajoin/core/join"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Syncer is a named, reconcilable source.
type Syncer interface {
	Name() string
	Sync(ctx context.Context) (*Report, error)
	Last() *Report
}

// Tracker keeps one join per source and reconciles it on every Sync.
// It is safe for concurrent use; the join is only touched under the tracker's lock.
type Tracker[K comparable, T any] struct {
	source Source[T]
	rule   join.Rule[K, T]
	logger *zap.Logger

	mu   sync.Mutex
	join *join.Join[K, T]
	last *Report

	sf singleflight.Group
}

// NewTracker creates a tracker for source using rule to identify items.
func NewTracker[K comparable, T any](source Source[T], rule join.Rule[K, T], logger *zap.Logger, opts ...join.Option[K, T]) *Tracker[K, T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker[K, T]{
		source: source,
		rule:   rule,
		logger: logger.With(zap.String("source", source.Name())),
		join:   join.New(opts...),
	}
}

// WithObjects registers a factory on the tracker's join.
// Reads on the returned view must happen inside View.
func WithObjects[K comparable, T, O any](t *Tracker[K, T], create func(T) (O, error), destroy func(O) error) *join.Objects[K, T, O] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return join.WithFactory(t.join, create, destroy)
}

// Name returns the source name.
func (t *Tracker[K, T]) Name() string {
	return t.source.Name()
}

// Sync loads the source and reconciles it against the previous version.
// Concurrent callers share a single load and receive the same report. The shared
// load ignores cancellation of any one caller's ctx; a cancelled caller returns
// ctx.Err() while the load completes for the others.
func (t *Tracker[K, T]) Sync(ctx context.Context) (*Report, error) {
	flight := context.WithoutCancel(ctx)
	ch := t.sf.DoChan(t.source.Name(), func() (interface{}, error) {
		return t.sync(flight)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			t.logger.Debug("Sync shared with concurrent caller")
		}
		return res.Val.(*Report), nil
	}
}

func (t *Tracker[K, T]) sync(ctx context.Context) (*Report, error) {
	start := time.Now()

	items, err := t.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %s: %w", t.source.Name(), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.join.Bind(items, t.rule); err != nil {
		return nil, fmt.Errorf("failed to reconcile source %s: %w", t.source.Name(), err)
	}

	report := NewReport(t.source.Name(), t.join)
	t.last = report

	t.logger.Info("Source reconciled",
		zap.Uint64("version", report.Version),
		zap.Int("total", report.Summary.Total),
		zap.Int("entered", report.Summary.Entered),
		zap.Int("updated", report.Summary.Updated),
		zap.Int("changed", report.Summary.Changed),
		zap.Int("exited", report.Summary.Exited),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

// Last returns the most recent report, or nil before the first Sync.
func (t *Tracker[K, T]) Last() *Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// View runs fn with exclusive access to the tracker's join.
func (t *Tracker[K, T]) View(fn func(j *join.Join[K, T]) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.join)
}
