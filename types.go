package binding

import "github.com/coregx/binding/notify"

// Binding is the read-only surface every binding kind satisfies: get,
// watch(n), when_changed(n). Value and computed bindings implement it;
// rope.Binding[T,A] offers the same Watch/WhenChanged pair with Len and
// ReadCells in place of Get; cloning
// is modeled as Go reference semantics (a *valueBinding/*computedBinding is
// already a cheap shared handle), not a method.
type Binding[T any] interface {
	// Get returns the current value, registering this binding as a
	// dependency of the enclosing computation (internal/depctx), if any.
	Get() T

	// Watch creates a Watcher that delivers n at most once per change
	// between two reads of the watcher.
	Watch(n notify.Notifiable) *Watcher[T]

	// WhenChanged attaches n directly to this binding's subscriber list,
	// bypassing the latch a Watcher would add. Returns the Releasable
	// that detaches n.
	WhenChanged(n notify.Notifiable) notify.Releasable
}

// MutableBinding is a writable Binding.
type MutableBinding[T any] interface {
	Binding[T]

	// Set replaces the stored value. A no-op if the new value equals the
	// old one under the binding's Equal function; otherwise every live
	// subscriber is marked changed exactly once.
	Set(v T)

	// Update transforms the stored value atomically: fn receives the
	// current value under the binding's lock and its result becomes the
	// new value, subject to the same equality suppression as Set.
	Update(fn func(T) T)
}
