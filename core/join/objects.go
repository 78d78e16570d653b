package join

import "fmt"

// entry is a memoized object tagged with the raw value it was built from.
type entry[T, O any] struct {
	raw T
	obj O
}

// Objects maps the identities of a Join to constructed objects.
type Objects[K comparable, T, O any] struct {
	join    *Join[K, T]
	create  func(T) (O, error)
	destroy func(O) error
	index   map[K]entry[T, O]
	sel     selection[O]

	detached bool
}

// WithFactory registers create and destroy on j and returns the object view.
// It replaces any factory previously registered on j; the previous view is detached
// and its methods return ErrDetached from then on. create must not be nil; destroy
// may be.
//
// create is called at most once per identity and raw value. destroy is called once
// per exiting identity, in exit order, before Bind returns.
func WithFactory[K comparable, T, O any](j *Join[K, T], create func(T) (O, error), destroy func(O) error) *Objects[K, T, O] {
	o := &Objects[K, T, O]{
		join:    j,
		create:  create,
		destroy: destroy,
		index:   make(map[K]entry[T, O]),
	}
	if j.hook != nil {
		j.hook.detach()
	}
	j.hook = o
	return o
}

// Join returns the underlying join.
func (o *Objects[K, T, O]) Join() *Join[K, T] {
	return o.join
}

// Bind reconciles items on the underlying join.
func (o *Objects[K, T, O]) Bind(items []T, rule Rule[K, T]) error {
	if o.detached {
		return ErrDetached
	}
	return o.join.Bind(items, rule)
}

// All returns the objects of the current collection in bound order.
func (o *Objects[K, T, O]) All() ([]O, error) {
	if o.detached {
		return nil, ErrDetached
	}
	return o.sel.get(selectAll, func() ([]O, error) { return o.identifyAll(o.join.current) })
}

// Enter returns the objects of the entering identities.
func (o *Objects[K, T, O]) Enter() ([]O, error) {
	if o.detached {
		return nil, ErrDetached
	}
	return o.sel.get(selectEnter, func() ([]O, error) { return o.identifyAll(o.join.enter) })
}

// Exit returns the objects of the exiting identities.
func (o *Objects[K, T, O]) Exit() ([]O, error) {
	if o.detached {
		return nil, ErrDetached
	}
	return o.sel.get(selectExit, func() ([]O, error) { return o.identifyAll(o.join.exit) })
}

// Get returns the object for one identity of the current or exiting collection.
func (o *Objects[K, T, O]) Get(k K) (O, error) {
	var zero O
	if o.detached {
		return zero, ErrDetached
	}
	if _, ok := o.join.values[k]; !ok {
		return zero, fmt.Errorf("%w: %v", ErrUnknownIdentity, k)
	}
	return o.identify(k)
}

// Built reports whether an object for k is memoized and still valid.
func (o *Objects[K, T, O]) Built(k K) bool {
	if o.detached {
		return false
	}
	e, ok := o.index[k]
	if !ok {
		return false
	}
	raw, ok := o.join.values[k]
	return ok && o.join.equal(e.raw, raw)
}

func (o *Objects[K, T, O]) identify(k K) (O, error) {
	raw := o.join.values[k]
	if e, ok := o.index[k]; ok && o.join.equal(e.raw, raw) {
		return e.obj, nil
	}

	obj, err := o.create(raw)
	if err != nil {
		var zero O
		return zero, err
	}
	o.index[k] = entry[T, O]{raw: raw, obj: obj}
	return obj, nil
}

func (o *Objects[K, T, O]) identifyAll(ids []K) ([]O, error) {
	out := make([]O, 0, len(ids))
	for _, k := range ids {
		obj, err := o.identify(k)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// afterBind prunes and invalidates the object index, then dispatches destroy.
func (o *Objects[K, T, O]) afterBind(live map[K]struct{}) error {
	o.sel.reset()

	prune(o.index, live)
	// An entering identity starts a new lifetime; an entry kept from its last exit
	// belongs to an object that was already destroyed.
	for _, k := range o.join.enter {
		delete(o.index, k)
	}
	for k, e := range o.index {
		if raw, ok := o.join.values[k]; !ok || !o.join.equal(e.raw, raw) {
			delete(o.index, k)
		}
	}

	if o.destroy != nil {
		if err := o.dispatchDestroy(); err != nil {
			return err
		}
	}

	o.sel.reset()
	return nil
}

// detach releases the memoized objects of a replaced view.
func (o *Objects[K, T, O]) detach() {
	o.detached = true
	o.index = nil
	o.sel.reset()
}

// dispatchDestroy resolves the exit selection and destroys each identity once.
func (o *Objects[K, T, O]) dispatchDestroy() error {
	exits := o.join.exit
	if len(exits) == 0 {
		return nil
	}

	objs, err := o.Exit()
	if err != nil {
		return err
	}

	done := make(map[K]struct{}, len(exits))
	for i, k := range exits {
		if _, ok := done[k]; ok {
			continue
		}
		done[k] = struct{}{}
		if err := o.destroy(objs[i]); err != nil {
			return err
		}
	}
	return nil
}
