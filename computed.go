package binding

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/coregx/binding/internal/depctx"
	"github.com/coregx/binding/internal/metrics"
	"github.com/coregx/binding/notify"
)

// computedBinding is a lazily-recomputed, memoized derived binding,
// generalizing coregx/signals' computed[T] (computed.go). That type takes its dependencies
// as explicit `deps ...any` arguments tracked via reflection
// (trackDependencyHelper); here dependencies are discovered by running
// compute inside internal/depctx.Collect and re-subscribed race-free via
// Collector.WhenChangedIfUnchanged — its atomic.Bool dirty flag
// becomes this type's invalidated bool, and "always recompute on
// markDirty" becomes the self-invalidator latch below (fire at most once
// per invalidation cycle, not once per upstream write).
type computedBinding[T any] struct {
	compute func() T
	onPanic func(any, []byte)

	mu           sync.Mutex
	hasCached    bool
	cached       T
	invalidated  bool
	existingSubs notify.Releasable

	gen atomic.Uint64

	subs *notify.SubscriberList

	// id identifies this instance in panic log lines.
	id string
}

// errNestedComputed is the misuse panic raised when a computed binding is
// evaluated for the first time inside another computation's
// dependency-collection scope. runCompute re-raises it rather than
// treating it as an ordinary compute-function panic.
var errNestedComputed = errors.New("binding: computed binding evaluated for the first time inside another computed binding's dependency-collection scope; its subscriptions would be torn down the instant the outer computation returns — read it once outside any computation before depending on it")

// Computed creates a read-only binding whose value is lazily derived from
// compute. Unlike coregx/signals' Computed, dependencies are never passed
// explicitly: compute may read any number of bindings, and whichever ones
// it actually reads on a given evaluation become this binding's
// dependency set for that cycle.
func Computed[T any](compute func() T) Binding[T] {
	return ComputedWithOptions(compute, Options[T]{})
}

// ComputedWithOptions creates a computed binding with a custom panic
// handler for the compute function.
func ComputedWithOptions[T any](compute func() T, opts Options[T]) Binding[T] {
	return &computedBinding[T]{
		compute: compute,
		onPanic: opts.OnPanic,
		subs:    notify.NewSubscriberList(),
		id:      uuid.NewString(),
	}
}

// Get implements the lazy-recompute/latch protocol: a
// cached, non-invalidated value returns immediately; otherwise compute is
// re-run in a retry loop until a dependency set can be subscribed to
// without having already gone stale mid-evaluation.
func (c *computedBinding[T]) Get() T {
	depctx.AddDependency(c)

	c.mu.Lock()
	if c.hasCached && !c.invalidated {
		v := c.cached
		c.mu.Unlock()
		metrics.ComputedCacheHits.Inc()
		return v
	}
	first := !c.hasCached
	if c.existingSubs != nil {
		c.existingSubs.Done()
		c.existingSubs = nil
	}
	// Cleared tentatively, before the recompute loop below, not after:
	// a dependency firing selfInvalidate between this point and the loop
	// installing its own fresh subscription must see invalidated==false
	// so it flips back to true and is never swallowed.
	c.invalidated = false
	c.mu.Unlock()

	if first && depctx.Active() {
		panic(errNestedComputed)
	}

	for {
		metrics.ComputedRecomputes.Inc()
		result, collector := depctx.Collect(c.runCompute)

		rel, ok := collector.WhenChangedIfUnchanged(notify.Func(c.selfInvalidate))
		if !ok {
			metrics.ComputedRetries.Inc()
			continue
		}

		c.mu.Lock()
		c.existingSubs = rel
		c.cached = result
		c.hasCached = true
		v := c.cached
		c.mu.Unlock()
		return v
	}
}

// runCompute invokes the user function with panic recovery; on panic the
// previously cached value is preserved (or the zero value, on a
// first-ever-evaluation panic, since there is no prior cached value yet).
// The nested-evaluation misuse panic (errNestedComputed) is not recovered
// here: it propagates to the caller.
func (c *computedBinding[T]) runCompute() (result T) {
	defer func() {
		if r := recover(); r != nil {
			if r == errNestedComputed {
				panic(r)
			}
			metrics.ComputedPanics.Inc()
			recoverFrom(r, c.onPanic, "computed function ["+c.id+"]")
			c.mu.Lock()
			if c.hasCached {
				result = c.cached
			}
			c.mu.Unlock()
		}
	}()
	return c.compute()
}

// selfInvalidate is the latch at the computed level: fire
// subscribers at most once per invalidation cycle, no matter how many
// upstream dependencies changed or how many times they changed.
func (c *computedBinding[T]) selfInvalidate() {
	c.mu.Lock()
	if c.invalidated {
		c.mu.Unlock()
		return
	}
	c.invalidated = true
	c.gen.Add(1)
	c.mu.Unlock()

	metrics.ComputedInvalidations.Inc()
	c.subs.Fire(c.notifyOne)
}

func (c *computedBinding[T]) notifyOne(n notify.Notifiable) {
	defer recoverInto(c.onPanic, "computed binding subscriber ["+c.id+"]")
	n.MarkAsChanged()
}

// Watch creates a Watcher bound to Get.
func (c *computedBinding[T]) Watch(n notify.Notifiable) *Watcher[T] {
	return NewWatcher(c.Get, n, c.WhenChanged)
}

// WhenChanged attaches n directly to the subscriber list.
func (c *computedBinding[T]) WhenChanged(n notify.Notifiable) notify.Releasable {
	return c.subs.Add(n)
}

// Generation implements internal/depctx.Dependency, letting a computed
// binding itself be depended on by another computed binding.
func (c *computedBinding[T]) Generation() uint64 {
	return c.gen.Load()
}
