// Package binding provides the core runtime of a reactive data-binding
// library: observable cells ("bindings") whose values are automatically
// recomputed and propagated when their dependencies change.
//
// This package generalizes github.com/coregx/signals: where that library
// requires dependencies to be passed explicitly to Computed and Effect,
// this one discovers them automatically by recording which bindings get
// read while a computation runs (package
// github.com/coregx/binding/internal/depctx). Subscriber bookkeeping,
// panic-safe fan-out, and the Options[T] constructor pattern carry over
// from coregx/signals largely unchanged.
//
// # Core types
//
// MutableBinding[T] — a writable cell with equality-based change
// suppression (New, NewWithOptions).
//
// Binding[T] (read-only view, also what Computed returns) — Get, Watch,
// WhenChanged.
//
// Computed[T] — a binding whose value is lazily recomputed from a pure
// function; dependencies are discovered, not declared.
//
// Watcher[T] — a latch: delivers at most one notification between reads of
// the underlying value.
//
// BindStream / Follow — fold a channel of events into a binding, and the
// reverse: turn any binding into a channel of its latest values.
//
// Package github.com/coregx/binding/rope provides the incremental
// collection binding ("rope binding") that propagates structural edits
// instead of whole-value snapshots; it is kept separate because it is the
// largest single component and has its own edit-action wire shape.
//
// # Thread safety
//
// All binding operations are safe for concurrent use. The dependency
// context is scoped to the calling goroutine and is never observed by
// another goroutine (internal/depctx).
//
// # Example
//
//	first := binding.New("John")
//	last := binding.New("Doe")
//
//	full := binding.Computed(func() string {
//	    return first.Get() + " " + last.Get()
//	})
//
//	fmt.Println(full.Get()) // "John Doe"
//	first.Set("Jane")
//	fmt.Println(full.Get()) // "Jane Doe" — dependency discovered automatically
//
// # Design principles
//
//  1. Dependencies are discovered, never declared.
//  2. Notifications are latched: a subscriber never sees more than one
//     notification between two reads of the value it cares about.
//  3. No subscriber is ever notified while a binding holds its own write
//     lock (Update's transform function does run under it).
package binding
