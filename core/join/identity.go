package join

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrFieldNotFound is returned by a Field rule when an item has no such field or key.
	ErrFieldNotFound = errors.New("identity field not found")
	// ErrIdentityType is returned when a derived identity cannot be used as the key type.
	ErrIdentityType = errors.New("identity has unexpected type")
	// ErrUnknownIdentity is returned when looking up an identity the join does not hold.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrDetached is returned by an object view whose factory was replaced on its join.
	ErrDetached = errors.New("object view detached from join")
)

type ruleKind int

const (
	ruleNone ruleKind = iota
	ruleField
	ruleFunc
)

// Rule derives the identity of a raw item. The zero Rule behaves like None.
type Rule[K comparable, T any] struct {
	kind  ruleKind
	field string
	fn    func(T) (K, error)
}

// None uses the raw item itself as its identity.
func None[K comparable, T any]() Rule[K, T] {
	return Rule[K, T]{kind: ruleNone}
}

// Field reads the identity from the named struct field or map key.
// Struct fields match by Go name first, then by json tag name.
func Field[K comparable, T any](name string) Rule[K, T] {
	return Rule[K, T]{kind: ruleField, field: name}
}

// Func computes the identity with fn. A nil fn behaves like None.
func Func[K comparable, T any](fn func(T) (K, error)) Rule[K, T] {
	return Rule[K, T]{kind: ruleFunc, fn: fn}
}

// String describes the rule for logs.
func (r Rule[K, T]) String() string {
	switch r.kind {
	case ruleField:
		return "field:" + r.field
	case ruleFunc:
		return "func"
	default:
		return "none"
	}
}

// resolve turns the rule into a pure identity function for one Bind call.
func (r Rule[K, T]) resolve() func(T) (K, error) {
	switch {
	case r.kind == ruleField:
		name := r.field
		return func(item T) (K, error) {
			return fieldIdentity[K](item, name)
		}
	case r.kind == ruleFunc && r.fn != nil:
		return r.fn
	default:
		return selfIdentity[K, T]
	}
}

func selfIdentity[K comparable, T any](item T) (K, error) {
	if k, ok := any(item).(K); ok {
		return k, nil
	}
	var zero K
	return zero, fmt.Errorf("%w: %T is not %s", ErrIdentityType, item, typeName[K]())
}

func fieldIdentity[K comparable](item any, name string) (K, error) {
	var zero K

	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return zero, fmt.Errorf("%w: %q on nil %T", ErrFieldNotFound, name, item)
		}
		v = v.Elem()
	}

	var fv reflect.Value
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			fv = v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		}
	case reflect.Struct:
		fv = structField(v, name)
	}
	if !fv.IsValid() {
		return zero, fmt.Errorf("%w: %q in %T", ErrFieldNotFound, name, item)
	}

	for fv.Kind() == reflect.Interface && !fv.IsNil() {
		fv = fv.Elem()
	}
	if fv.Kind() == reflect.Interface {
		return zero, fmt.Errorf("%w: %q is nil", ErrIdentityType, name)
	}

	if k, ok := fv.Interface().(K); ok {
		return k, nil
	}

	// Named types sharing the key's kind (type Code string -> string) convert.
	kt := reflect.TypeOf((*K)(nil)).Elem()
	if kt.Kind() != reflect.Interface && fv.Kind() == kt.Kind() && fv.Type().ConvertibleTo(kt) {
		return fv.Convert(kt).Interface().(K), nil
	}
	return zero, fmt.Errorf("%w: field %q is %s, want %s", ErrIdentityType, name, fv.Type(), kt)
}

func structField(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return v.FieldByIndex(sf.Index)
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == name {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func typeName[K any]() string {
	return reflect.TypeOf((*K)(nil)).Elem().String()
}
