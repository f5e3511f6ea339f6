package rope

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/coregx/binding"
	"github.com/coregx/binding/internal/actorqueue"
	"github.com/coregx/binding/internal/depctx"
	"github.com/coregx/binding/internal/metrics"
	"github.com/coregx/binding/internal/ropecore"
	"github.com/coregx/binding/notify"
)

// Options configures a rope binding constructor.
type Options[T any, A comparable] struct {
	// OnPanic handles panics from subscriber callbacks and, for the
	// Computed/ComputedDifference constructors, the generating function.
	OnPanic func(err any, stack []byte)

	// QueueCapacity hints the buffer depth of the binding's actor-queue
	// (internal/actorqueue.New always uses a fixed buffer today; this
	// field is accepted for forward compatibility with a tunable queue
	// and is currently advisory only).
	QueueCapacity int
}

// ropeBinding is the concrete implementation behind every constructor in
// this package: an actor-queue
// serializing all reads and mutations against a ropecore.Pull-buffered
// Rope, a subscriber list, a generation counter so other bindings can
// depend on this one, a handle count standing in for the source design's
// reference-counted handles, and a registry of live consumer streams.
type ropeBinding[T any, A comparable] struct {
	q       *actorqueue.Queue
	pull    *ropecore.Pull[T, A]
	subs    *notify.SubscriberList
	onPanic func(any, []byte)

	gen atomic.Uint64

	mu             sync.Mutex
	consumers      map[uint64]*consumerState[T, A]
	nextConsumerID uint64
	closed         bool

	// handles counts live owners of this rope binding: the constructor's
	// returned handle (1) plus every retained consumer stream. The last
	// Close reaching zero fires the terminal pull so every live consumer
	// stream can observe end-of-stream.
	handles atomic.Int32

	// driverStop tears down whatever Effect or relay drives this
	// binding's content (Computed/ComputedDifference's Effect, Chain/Map's
	// retained source streams) once the last handle closes. nil for a
	// plain mutable rope and for FromStream, whose goroutine ends when its
	// edit channel is closed.
	driverStop func()

	// id identifies this instance in panic log lines.
	id string
}

func newRopeBinding[T any, A comparable](opts Options[T, A]) *ropeBinding[T, A] {
	r := &ropeBinding[T, A]{
		subs:      notify.NewSubscriberList(),
		consumers: make(map[uint64]*consumerState[T, A]),
		onPanic:   opts.OnPanic,
		id:        uuid.NewString(),
	}
	r.q = actorqueue.New()
	r.pull = ropecore.NewPull[T, A](r.fanOut)
	r.handles.Store(1)
	return r
}

// New creates a mutable rope binding with no initial cells.
func New[T any, A comparable]() MutableBinding[T, A] {
	return NewWithOptions[T, A](Options[T, A]{})
}

// NewWithOptions is New with custom Options.
func NewWithOptions[T any, A comparable](opts Options[T, A]) MutableBinding[T, A] {
	return newRopeBinding[T, A](opts)
}

// applyEdit runs on the binding's actor-queue: it buffers e into the
// pull wrapper (which synchronously fans it out to every consumer's
// FIFO via r.fanOut), bumps the generation counter, and fires
// subscribers. Must only be called from within r.q.Sync/Desync.
func (r *ropeBinding[T, A]) applyEdit(e EditAction[T, A]) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}
	r.pull.Edit(e)
	r.gen.Add(1)
	metrics.RopeEditsApplied.Inc()
	r.subs.Fire(r.notifyOne)
}

func (r *ropeBinding[T, A]) fanOut(e EditAction[T, A]) {
	r.mu.Lock()
	cs := make([]*consumerState[T, A], 0, len(r.consumers))
	for _, c := range r.consumers {
		cs = append(cs, c)
	}
	r.mu.Unlock()
	for _, c := range cs {
		c.push(e)
	}
}

func (r *ropeBinding[T, A]) notifyOne(n notify.Notifiable) {
	defer recoverInto(r.onPanic, "rope binding subscriber ["+r.id+"]")
	n.MarkAsChanged()
}

// Len implements Binding.
func (r *ropeBinding[T, A]) Len() int {
	depctx.AddDependency(r)
	var n int
	r.q.Sync(func() {
		n = r.pull.Materialize().Len()
	})
	return n
}

// ReadCells implements Binding.
func (r *ropeBinding[T, A]) ReadCells(rng Range) []T {
	depctx.AddDependency(r)
	var out []T
	r.q.Sync(func() {
		out = r.pull.Materialize().ReadCells(rng)
	})
	return out
}

// ReadAttributes implements Binding.
func (r *ropeBinding[T, A]) ReadAttributes(pos int) A {
	depctx.AddDependency(r)
	var out A
	r.q.Sync(func() {
		out = r.pull.Materialize().ReadAttributes(pos)
	})
	return out
}

// snapshot reads every cell under one actor-queue round-trip against one
// Materialize() call, so a concurrent edit shrinking the rope between a
// Len() and a ReadCells() can never hand ReadCells an End past the
// rope's length at the moment it actually reads.
func (r *ropeBinding[T, A]) snapshot() []T {
	depctx.AddDependency(r)
	var out []T
	r.q.Sync(func() {
		m := r.pull.Materialize()
		out = m.ReadCells(Range{Start: 0, End: m.Len()})
	})
	return out
}

// Watch implements Binding.
func (r *ropeBinding[T, A]) Watch(n notify.Notifiable) *binding.Watcher[[]T] {
	return binding.NewWatcher(r.snapshot, n, r.WhenChanged)
}

// WhenChanged implements Binding.
func (r *ropeBinding[T, A]) WhenChanged(n notify.Notifiable) notify.Releasable {
	return r.subs.Add(n)
}

// Generation implements internal/depctx.Dependency, letting a Computed
// binding in the root package depend on a rope binding's Len/ReadCells.
func (r *ropeBinding[T, A]) Generation() uint64 {
	return r.gen.Load()
}

// Replace implements MutableBinding.
func (r *ropeBinding[T, A]) Replace(rng Range, cells []T) {
	r.Edit(Replace[T, A](rng, cells))
}

// SetAttributes implements MutableBinding.
func (r *ropeBinding[T, A]) SetAttributes(rng Range, attr A) {
	r.Edit(SetAttributes[T, A](rng, attr))
}

// ReplaceAttributes implements MutableBinding.
func (r *ropeBinding[T, A]) ReplaceAttributes(rng Range, cells []T, attr A) {
	r.Edit(ReplaceAttributes[T, A](rng, cells, attr))
}

// Extend implements MutableBinding.
func (r *ropeBinding[T, A]) Extend(cells []T) {
	r.q.Sync(func() {
		end := r.pull.Materialize().Len()
		r.applyEdit(Replace[T, A](Range{Start: end, End: end}, cells))
	})
}

// RetainCells implements MutableBinding: keep is evaluated over a
// snapshot of the current cells via github.com/samber/lo's Filter, and
// the whole rope is replaced with the filtered sequence in a single edit.
func (r *ropeBinding[T, A]) RetainCells(keep func(T) bool) {
	r.q.Sync(func() {
		m := r.pull.Materialize()
		cells := m.ReadCells(Range{Start: 0, End: m.Len()})
		kept := lo.Filter(cells, func(c T, _ int) bool { return keep(c) })
		r.applyEdit(Replace[T, A](Range{Start: 0, End: len(cells)}, kept))
	})
}

// Edit implements MutableBinding.
func (r *ropeBinding[T, A]) Edit(e EditAction[T, A]) {
	r.q.Sync(func() {
		r.applyEdit(e)
	})
}

// FollowChanges implements Binding.
func (r *ropeBinding[T, A]) FollowChanges() *Stream[T, A] {
	return r.followChanges(false)
}

// FollowChangesRetained implements Binding.
func (r *ropeBinding[T, A]) FollowChangesRetained() *Stream[T, A] {
	return r.followChanges(true)
}

func (r *ropeBinding[T, A]) followChanges(retained bool) *Stream[T, A] {
	r.mu.Lock()
	id := r.nextConsumerID
	r.nextConsumerID++
	cs := newConsumerState[T, A](id, retained, r.detachConsumer)
	r.consumers[id] = cs
	closedAlready := r.closed
	r.mu.Unlock()

	if retained {
		r.handles.Add(1)
	}
	metrics.RopeConsumersActive.Inc()
	if closedAlready {
		cs.end()
	}
	return &Stream[T, A]{C: cs.out, state: cs}
}

func (r *ropeBinding[T, A]) detachConsumer(id uint64) {
	r.mu.Lock()
	cs, ok := r.consumers[id]
	if ok {
		delete(r.consumers, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	metrics.RopeConsumersActive.Dec()
	if cs.retained {
		if r.handles.Add(-1) == 0 {
			r.terminal()
		}
	}
}

// Chain implements Binding.
func (r *ropeBinding[T, A]) Chain(other Binding[T, A]) Binding[T, A] {
	return Chain[T, A](r, other)
}

// Close implements Binding: releases this constructor's handle.
// Once every handle (including retained streams) is closed, every live
// consumer observes end-of-stream.
func (r *ropeBinding[T, A]) Close() {
	if r.handles.Add(-1) == 0 {
		r.terminal()
	}
}

// terminal runs exactly once: marks the binding closed, ends every live
// consumer stream, tears down whatever drives this binding's content,
// stops the actor-queue worker, and gives subscribers one final fire so a
// downstream computed can react to the source being dropped.
func (r *ropeBinding[T, A]) terminal() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	cs := make([]*consumerState[T, A], 0, len(r.consumers))
	for _, c := range r.consumers {
		cs = append(cs, c)
	}
	r.mu.Unlock()

	for _, c := range cs {
		c.end()
	}
	if r.driverStop != nil {
		r.driverStop()
	}
	r.subs.Fire(r.notifyOne)
	r.q.Stop()
}
