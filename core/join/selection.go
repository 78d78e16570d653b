package join

import "slices"

type selectionKind int

const (
	selectAll selectionKind = iota
	selectEnter
	selectExit
	selectionKinds
)

// selection memoizes resolved sequences for one version.
type selection[V any] struct {
	memo  [selectionKinds][]V
	valid [selectionKinds]bool
}

// get returns a copy of the memoized sequence, resolving it on first use.
func (s *selection[V]) get(kind selectionKind, resolve func() ([]V, error)) ([]V, error) {
	if !s.valid[kind] {
		out, err := resolve()
		if err != nil {
			return nil, err
		}
		s.memo[kind], s.valid[kind] = out, true
	}
	return slices.Clone(s.memo[kind]), nil
}

func (s *selection[V]) reset() {
	*s = selection[V]{}
}
