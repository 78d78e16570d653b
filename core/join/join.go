package join

import "maps"

// Option configures a Join.
type Option[K comparable, T any] func(*Join[K, T])

// WithEqual overrides how raw values of one identity are compared across versions.
// The comparison decides whether memoized objects are stale and which updates count as
// changed.
func WithEqual[K comparable, T any](equal func(a, b T) bool) Option[K, T] {
	return func(j *Join[K, T]) {
		if equal != nil {
			j.equal = equal
		}
	}
}

// lifecycle is notified after every Bind, once the raw index is consistent.
type lifecycle[K comparable] interface {
	afterBind(live map[K]struct{}) error
	detach()
}

// Join holds the bound collection and the raw value index of one data-join.
type Join[K comparable, T any] struct {
	current []K
	enter   []K
	update  []K
	exit    []K
	changed []K
	values  map[K]T
	version uint64

	equal func(a, b T) bool
	sel   selection[T]
	hook  lifecycle[K]
}

// New creates an empty Join.
func New[K comparable, T any](opts ...Option[K, T]) *Join[K, T] {
	j := &Join[K, T]{
		values: make(map[K]T),
		equal:  sameValue[T],
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Bind reconciles items against the previous version using rule.
//
// Identities are recomputed from rule on every call. When several items share an
// identity they all stay in the sequences, but the index keeps the last one.
// An error returned by the rule or by a registered factory or destroy callback is
// returned unchanged and leaves the join in whatever state it reached.
func (j *Join[K, T]) Bind(items []T, rule Rule[K, T]) error {
	ident := rule.resolve()

	ids := make([]K, 0, len(items))
	index := make(map[K]T, len(items))
	for _, item := range items {
		k, err := ident(item)
		if err != nil {
			return err
		}
		ids = append(ids, k)
		index[k] = item
	}

	previous := setOf(j.current)
	j.changed = j.changed[:0:0]
	seen := make(map[K]struct{}, len(ids))
	for _, k := range ids {
		if _, ok := previous[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if old, ok := j.values[k]; ok && !j.equal(old, index[k]) {
			j.changed = append(j.changed, k)
		}
	}

	j.enter = difference(ids, j.current)
	j.exit = difference(j.current, ids)
	j.update = intersection(ids, j.current)
	j.current = ids
	j.version++

	maps.Copy(j.values, index)
	live := setOf(j.current, j.exit)
	prune(j.values, live)
	j.sel.reset()

	if j.hook != nil {
		if err := j.hook.afterBind(live); err != nil {
			return err
		}
	}
	return nil
}

// prune deletes every key of index that is not live.
func prune[K comparable, V any](index map[K]V, live map[K]struct{}) {
	for k := range index {
		if _, ok := live[k]; !ok {
			delete(index, k)
		}
	}
}

// Data returns the raw values of the current collection in bound order.
func (j *Join[K, T]) Data() []T {
	return j.raw(j.current)
}

// IDs returns the identities of the current collection in bound order.
func (j *Join[K, T]) IDs() []K {
	return clone(j.current)
}

// EnterIDs returns the identities that entered with the last Bind.
func (j *Join[K, T]) EnterIDs() []K {
	return clone(j.enter)
}

// UpdateIDs returns the identities present in both of the last two versions,
// in current order.
func (j *Join[K, T]) UpdateIDs() []K {
	return clone(j.update)
}

// ExitIDs returns the identities that exited with the last Bind, in previous order.
func (j *Join[K, T]) ExitIDs() []K {
	return clone(j.exit)
}

// ChangedIDs returns the updated identities whose raw value changed with the last Bind.
func (j *Join[K, T]) ChangedIDs() []K {
	return clone(j.changed)
}

// All returns the raw values of the current collection. The result is memoized until
// the next Bind.
func (j *Join[K, T]) All() []T {
	out, _ := j.sel.get(selectAll, func() ([]T, error) { return j.raw(j.current), nil })
	return out
}

// Enter returns the raw values of the entering identities.
func (j *Join[K, T]) Enter() []T {
	out, _ := j.sel.get(selectEnter, func() ([]T, error) { return j.raw(j.enter), nil })
	return out
}

// Exit returns the last known raw values of the exiting identities.
func (j *Join[K, T]) Exit() []T {
	out, _ := j.sel.get(selectExit, func() ([]T, error) { return j.raw(j.exit), nil })
	return out
}

// Lookup returns the indexed raw value for k. Exiting identities stay resolvable until
// the next Bind prunes them.
func (j *Join[K, T]) Lookup(k K) (T, bool) {
	v, ok := j.values[k]
	return v, ok
}

// Len returns the number of items in the current collection.
func (j *Join[K, T]) Len() int {
	return len(j.current)
}

// Version returns the number of completed reconciliations.
func (j *Join[K, T]) Version() uint64 {
	return j.version
}

// Equal reports whether a and b are the same raw value under the join's comparison.
func (j *Join[K, T]) Equal(a, b T) bool {
	return j.equal(a, b)
}

func (j *Join[K, T]) raw(ids []K) []T {
	out := make([]T, 0, len(ids))
	for _, k := range ids {
		out = append(out, j.values[k])
	}
	return out
}

func clone[K any](ids []K) []K {
	return append(make([]K, 0, len(ids)), ids...)
}
