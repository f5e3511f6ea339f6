package binding

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/coregx/binding/internal/depctx"
	"github.com/coregx/binding/notify"
)

// Effect is a thin adapter over the dependency-tracking machinery
// (internal/depctx) underneath Computed: it runs a function immediately and on every change of
// whatever it reads, discovering those dependencies the same way Computed
// does rather than taking them as explicit arguments the way
// coregx/signals' effect.go does.
type Effect struct {
	fn      func() func()
	onPanic func(any, []byte)

	mu      sync.Mutex
	cleanup func()
	subs    notify.Releasable
	stopped atomic.Bool

	// id identifies this instance in panic log lines.
	id string
}

// EffectOptions configures an Effect's panic handling.
type EffectOptions struct {
	// OnPanic is called when the effect body or its cleanup panics. If
	// nil, panics are logged via this package's logger.
	OnPanic func(err any, stack []byte)
}

// NewEffect runs fn immediately, then again whenever any binding it read
// changes.
func NewEffect(fn func()) *Effect {
	return NewEffectWithCleanup(func() func() {
		fn()
		return nil
	})
}

// NewEffectWithCleanup is NewEffect for functions that return a cleanup
// closure, run before the next execution and on Stop.
func NewEffectWithCleanup(fn func() func()) *Effect {
	return NewEffectWithOptions(fn, EffectOptions{})
}

// NewEffectWithOptions is NewEffectWithCleanup with a custom panic handler.
func NewEffectWithOptions(fn func() func(), opts EffectOptions) *Effect {
	e := &Effect{fn: fn, onPanic: opts.OnPanic, id: uuid.NewString()}
	e.run()
	return e
}

// run re-executes the effect body, tearing down the previous run's
// cleanup and dependency subscriptions first and installing fresh ones
// discovered from this run. Unlike a Computed, an Effect has no cache to
// protect, so there is no need for the when-changed-if-unchanged retry
// guard: re-subscribing to whatever the latest run actually read is
// always correct, even if a dependency changed mid-run (it will simply
// trigger another run immediately after this one installs its
// subscriptions).
func (e *Effect) run() {
	if e.stopped.Load() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped.Load() {
		return
	}

	if e.subs != nil {
		e.subs.Done()
		e.subs = nil
	}
	if e.cleanup != nil {
		old := e.cleanup
		e.cleanup = nil
		func() {
			defer recoverInto(e.onPanic, "effect cleanup ["+e.id+"]")
			old()
		}()
	}

	var newCleanup func()
	result, collector := depctx.Collect(func() (cleanup func()) {
		defer func() {
			if r := recover(); r != nil {
				recoverFrom(r, e.onPanic, "effect function ["+e.id+"]")
			}
		}()
		return e.fn()
	})
	newCleanup = result

	e.cleanup = newCleanup
	e.subs = collector.WhenChanged(notify.Func(e.run))
}

// Stop tears down the effect's current subscription and runs its final
// cleanup. Safe to call more than once.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs != nil {
		e.subs.Done()
		e.subs = nil
	}
	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		func() {
			defer recoverInto(e.onPanic, "effect final cleanup ["+e.id+"]")
			c()
		}()
	}
}
