// Package depctx implements the dependency-collection context described by
// the design's "Dependency context" module: a per-goroutine stack of
// collectors that bindings register themselves with when they are read
// during a computation.
//
// Go has no language-level equivalent of a thread-local (goroutines are not
// threads and migrate between OS threads freely), so "per-thread" is
// rendered here as "per-goroutine", keyed by the id Go itself prints in
// goroutine dumps. There is no supported public API for that id; parsing it
// out of runtime.Stack is the standard workaround reached for by every Go
// library that needs goroutine-local state (the same technique used by,
// e.g., ORM connection-per-goroutine shims). No library in the example
// corpus provides goroutine-local storage, so this one piece is built
// directly on the standard library — see DESIGN.md.
package depctx

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"github.com/coregx/binding/notify"
)

// Dependency is anything a computation can read and later be notified by.
// Value bindings, computed bindings, and rope bindings all satisfy this
// with their existing WhenChanged/Generation methods; no adapter type is
// needed because, unlike coregx/signals' trackDependencyHelper, this
// interface carries no value type parameter to erase.
type Dependency interface {
	WhenChanged(n notify.Notifiable) notify.Releasable
	Generation() uint64
}

type record struct {
	dep Dependency
	gen uint64
}

// Collector accumulates the dependencies read during one Collect call.
type Collector struct {
	records []record
}

func (c *Collector) add(d Dependency) {
	c.records = append(c.records, record{dep: d, gen: d.Generation()})
}

// WhenChanged subscribes n to every collected dependency unconditionally,
// returning an aggregate Releasable. Used where recompute-during-read races
// are not a concern (e.g. one-shot effects that always re-run).
func (c *Collector) WhenChanged(n notify.Notifiable) notify.Releasable {
	if len(c.records) == 0 {
		return notify.Noop()
	}
	rels := make(notify.Aggregate, 0, len(c.records))
	for _, r := range c.records {
		rels = append(rels, r.dep.WhenChanged(n))
	}
	return rels
}

// WhenChangedIfUnchanged is the race-free subscription primitive the
// computed binding's recompute loop relies on. It subscribes n to every
// collected dependency first (so no notification can be missed), then
// checks whether any dependency's generation moved between the moment it
// was collected and the moment the subscription was established. If one
// did, every subscription just made is torn down and the second return
// value is false, signalling the caller to discard this evaluation and
// retry with a fresh Collect.
func (c *Collector) WhenChangedIfUnchanged(n notify.Notifiable) (notify.Releasable, bool) {
	if len(c.records) == 0 {
		return notify.Noop(), true
	}
	rels := make(notify.Aggregate, 0, len(c.records))
	stale := false
	for _, r := range c.records {
		rels = append(rels, r.dep.WhenChanged(n))
		if r.dep.Generation() != r.gen {
			stale = true
		}
	}
	if stale {
		rels.Done()
		return nil, false
	}
	return rels, true
}

// Len reports how many dependencies were collected.
func (c *Collector) Len() int { return len(c.records) }

var (
	mu     sync.Mutex
	stacks = map[int64][]*Collector{}
)

func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Collect runs f with a fresh Collector pushed onto the calling goroutine's
// stack, pops it on return, and hands back both f's result and the
// Collector describing what f read.
func Collect[T any](f func() T) (T, *Collector) {
	gid := goroutineID()
	c := &Collector{}

	mu.Lock()
	stacks[gid] = append(stacks[gid], c)
	mu.Unlock()

	defer func() {
		mu.Lock()
		s := stacks[gid]
		s = s[:len(s)-1]
		if len(s) == 0 {
			delete(stacks, gid)
		} else {
			stacks[gid] = s
		}
		mu.Unlock()
	}()

	result := f()
	return result, c
}

// AddDependency appends d to the top collector on the calling goroutine's
// stack, if any. Outside of a Collect scope it is a no-op, matching the
// design's "otherwise discard" rule.
func AddDependency(d Dependency) {
	gid := goroutineID()
	mu.Lock()
	s := stacks[gid]
	var top *Collector
	if len(s) > 0 {
		top = s[len(s)-1]
	}
	mu.Unlock()
	if top != nil {
		top.add(d)
	}
}

// Active reports whether the calling goroutine is currently inside a
// Collect scope. Computed bindings use this to detect and reject a
// computed whose first evaluation happens inside another computation's
// dependency-collection scope: such a computed would
// have its freshly-established subscriptions torn down the instant the
// enclosing computation returns and re-evaluates, which is never what the
// caller intended.
func Active() bool {
	gid := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	return len(stacks[gid]) > 0
}
