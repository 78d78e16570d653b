package join

import "reflect"

// sameValue reports whether two raw values are the same for staleness checks.
// Reference kinds compare by identity, comparable values by ==, anything else deeply.
func sameValue[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}

	ra, rb := reflect.ValueOf(av), reflect.ValueOf(bv)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}

	if ra.Comparable() && rb.Comparable() {
		return ra.Equal(rb)
	}
	return reflect.DeepEqual(av, bv)
}
