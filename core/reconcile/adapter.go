package reconcile

import "context"

// Source loads the current version of a tracked collection.
// Each adapter decides how items are loaded; the tracker decides identity.
type Source[T any] interface {
	// Name returns the unique name of this source (e.g., "assets", "table:items").
	Name() string

	// Load returns the items of the current version in their natural order.
	// Implementations should load the whole collection in one pass.
	Load(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a load function into a Source.
type SourceFunc[T any] struct {
	SourceName string
	LoadFunc   func(ctx context.Context) ([]T, error)
}

// Name returns the configured source name.
func (s SourceFunc[T]) Name() string {
	return s.SourceName
}

// Load calls the configured load function.
func (s SourceFunc[T]) Load(ctx context.Context) ([]T, error) {
	return s.LoadFunc(ctx)
}
