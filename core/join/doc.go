// Package join provides a generic data-join engine that reconciles successive
// versions of an ordered collection.
//
// Every call to Bind classifies identities relative to the previous version:
//
//   - Enter: identities present now but not in the previous version.
//   - Update: identities present in both versions.
//   - Exit: identities present in the previous version but not now.
//
// Sequences keep the order of the version they come from, so Enter and Update follow
// the new collection while Exit follows the previous one.
//
// # Identity Rules
//
// A Rule decides how an identity is derived from a raw item. Field reads a struct
// field (Go name or json tag) or a string-keyed map entry, Func computes it, and None
// uses the item itself. The rule is supplied per Bind call.
//
// # Object Construction
//
// WithFactory attaches a factory to a Join. Objects are built lazily on first read and
// memoized per identity together with the raw value they were built from. When a
// later version carries a different raw value for the same identity, the memoized
// object is discarded and rebuilt on the next read. When an identity exits, the
// destroy callback runs exactly once, synchronously, inside the Bind that produced
// the exit.
//
// # Concurrency
//
// A Join is not safe for concurrent use. Callers that share a handle between
// goroutines must serialize Bind and the read methods themselves.
//
// # Usage
//
//	j := join.New[int, Item]()
//	_ = j.Bind(first, join.Field[int, Item]("ID"))
//	_ = j.Bind(second, join.Field[int, Item]("ID"))
//	fmt.Println(j.EnterIDs(), j.ExitIDs())
//
//	views := join.WithFactory(j, newView, closeView)
//	all, err := views.All()
package join
