package binding

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/coregx/binding/internal/depctx"
	"github.com/coregx/binding/internal/metrics"
	"github.com/coregx/binding/notify"
)

// valueBinding is a mutable, equality-suppressed cell, generalizing
// coregx/signals' signal[T] (signal.go): same RWMutex-guarded value plus
// equality-suppressed Set, but subscriber bookkeeping is delegated to
// notify.SubscriberList instead of a private map+nextID pair, and the
// binding additionally satisfies internal/depctx.Dependency (WhenChanged,
// Generation) so it can be read inside a Computed's evaluation.
type valueBinding[T any] struct {
	mu    sync.RWMutex
	value T
	equal EqualFunc[T]

	gen atomic.Uint64

	subs    *notify.SubscriberList
	onPanic func(any, []byte)

	// id identifies this instance in panic log lines (google/uuid, as
	// juju-juju's jwt package uses it to mint unique token identifiers).
	id string
}

// New creates a value binding that compares values with reflect.DeepEqual:
// a Set or Update whose new value is deeply equal to the current one
// notifies nobody.
func New[T any](initial T) MutableBinding[T] {
	return NewWithOptions(initial, Options[T]{})
}

// NewWithOptions creates a value binding with a custom equality function
// and/or panic handler. A nil opts.Equal falls back to reflect.DeepEqual.
func NewWithOptions[T any](initial T, opts Options[T]) MutableBinding[T] {
	equal := opts.Equal
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return &valueBinding[T]{
		value:   initial,
		equal:   equal,
		subs:    notify.NewSubscriberList(),
		onPanic: opts.OnPanic,
		id:      uuid.NewString(),
	}
}

// Get registers this binding as a dependency of the enclosing computation
// (if any) and returns the current value under a read lock.
func (b *valueBinding[T]) Get() T {
	metrics.Reads.Inc()
	depctx.AddDependency(b)

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Set replaces the value, suppressing the write (and any notification)
// when Equal reports no change. Subscribers are fired with the write
// lock released, so a subscriber callback can safely call Get again.
func (b *valueBinding[T]) Set(v T) {
	b.mu.Lock()
	if b.equal != nil && b.equal(b.value, v) {
		b.mu.Unlock()
		return
	}
	b.value = v
	b.gen.Add(1)
	b.mu.Unlock()

	metrics.Writes.Inc()
	b.subs.Fire(b.notifyOne)
}

// Update transforms the value atomically under the write lock, then
// applies the same equality-suppression discipline as Set before firing
// subscribers outside the lock.
func (b *valueBinding[T]) Update(fn func(T) T) {
	b.mu.Lock()
	old := b.value
	next := fn(old)
	if b.equal != nil && b.equal(old, next) {
		b.mu.Unlock()
		return
	}
	b.value = next
	b.gen.Add(1)
	b.mu.Unlock()

	metrics.Writes.Inc()
	b.subs.Fire(b.notifyOne)
}

// Watch creates a Watcher bound to Get, attaching its internal
// notifiable to this binding's subscriber list.
func (b *valueBinding[T]) Watch(n notify.Notifiable) *Watcher[T] {
	return NewWatcher(b.Get, n, b.WhenChanged)
}

// WhenChanged attaches n directly to the subscriber list.
func (b *valueBinding[T]) WhenChanged(n notify.Notifiable) notify.Releasable {
	return b.subs.Add(n)
}

// Generation implements internal/depctx.Dependency: it increments on
// every value-changing Set/Update, letting a computed binding's
// when-changed-if-unchanged guard detect writes that race its evaluation.
func (b *valueBinding[T]) Generation() uint64 {
	return b.gen.Load()
}

func (b *valueBinding[T]) notifyOne(n notify.Notifiable) {
	defer recoverInto(b.onPanic, "value binding subscriber ["+b.id+"]")
	n.MarkAsChanged()
}
