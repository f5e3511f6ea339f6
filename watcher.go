package binding

import (
	"sync"

	"github.com/coregx/binding/notify"
)

// Watcher is a change latch: it delivers a
// notification when its source reports a change after the most recent
// Get, and then no more until the next Get. It does not compare values
// itself. It never double-fires between two reads and never drops a
// change that lands in the gap between a read and the read clearing the
// latch.
//
// Constructed via Binding.Watch; coregx/signals has no
// equivalent, since its Computed/Effect subscribe directly rather than
// through a shared latch primitive.
type Watcher[T any] struct {
	read func() T
	n    notify.Notifiable

	mu      sync.Mutex
	updated bool

	owned notify.Releasable
}

// NewWatcher starts with the latch set, so no notification is delivered
// until the first Get clears it, and attaches to the source's subscriber
// list immediately.
// Exported so other packages defining their own Binding-shaped types
// (e.g. github.com/coregx/binding/rope) can build a Watcher over a custom
// read function instead of duplicating the latch logic.
func NewWatcher[T any](read func() T, n notify.Notifiable, attach func(notify.Notifiable) notify.Releasable) *Watcher[T] {
	w := &Watcher[T]{read: read, n: n, updated: true}
	w.owned = attach(notify.Func(w.onUpstreamChanged))
	return w
}

// onUpstreamChanged implements the watcher's half of the latch: fire n
// only on the transition false -> true, never while already armed.
func (w *Watcher[T]) onUpstreamChanged() {
	w.mu.Lock()
	already := w.updated
	w.updated = true
	w.mu.Unlock()
	if !already {
		w.n.MarkAsChanged()
	}
}

// Get clears the latch before reading, so a concurrent change landing
// between the clear and the read is never lost: it will observe
// updated==false and correctly flip back to true, arming the next
// notification.
func (w *Watcher[T]) Get() T {
	w.mu.Lock()
	w.updated = false
	w.mu.Unlock()
	return w.read()
}

// Done releases the watcher's subscription to its source.
func (w *Watcher[T]) Done() {
	w.owned.Done()
}
