// Package notify provides the Notifiable and Releasable primitives that
// every binding kind (value, computed, rope) builds its change-propagation
// on. It plays the role coregx/signals fills with
// per-type ad hoc subscriber maps: here it is factored out once because
// three different binding kinds need the identical latch-free fan-out and
// release discipline.
package notify

import "sync"

// Notifiable is anything that can be told "a dependency of yours changed".
// It carries no payload: the convention throughout this library is that a
// notification means "go read the new value yourself", never "here it is".
type Notifiable interface {
	MarkAsChanged()
}

// Func adapts a plain closure to Notifiable.
type Func func()

// MarkAsChanged implements Notifiable.
func (f Func) MarkAsChanged() { f() }

// Releasable is a handle whose disposal tears down a subscription. KeepAlive
// exists for interface parity with the source design (where a Releasable's
// destructor disposes it unless kept alive); Go has no deterministic
// destructors, so disposal here is always explicit via Done, and KeepAlive
// is a documented no-op that exists so callers migrating from the Rust
// original don't need a structural rewrite.
type Releasable interface {
	Done()
	KeepAlive()
}

// shared is the state behind a wrapped Notifiable: a target and whether it
// is still "in use". Two Releasable handles (owned and internal) point at
// the same shared state, matching the source design's "cloning produces an
// owned copy and a non-owned copy" rule.
type shared struct {
	mu     sync.Mutex
	target Notifiable
	inUse  bool
}

// ReleasableNotifiable wraps a user Notifiable so that it can be both
// inserted into a subscriber list (as a Notifiable) and individually
// released (as a Releasable) without the list needing to know anything
// about release semantics.
type ReleasableNotifiable struct {
	s     *shared
	owned bool
}

// Wrap creates a releasable pair around target: owned is the handle handed
// back to the caller that established the subscription, internal is the
// handle kept by the binding's own subscriber list. Firing internal checks
// the shared in-use flag before calling target, so a caller that has
// already called Done on owned causes internal to become an inert no-op
// the next time the list is walked.
func Wrap(target Notifiable) (owned, internal *ReleasableNotifiable) {
	s := &shared{target: target, inUse: true}
	return &ReleasableNotifiable{s: s, owned: true}, &ReleasableNotifiable{s: s, owned: false}
}

// MarkAsChanged implements Notifiable: fires the wrapped target iff the
// subscription is still in use.
func (r *ReleasableNotifiable) MarkAsChanged() {
	r.s.mu.Lock()
	inUse := r.s.inUse
	target := r.s.target
	r.s.mu.Unlock()
	if inUse {
		target.MarkAsChanged()
	}
}

// InUse reports whether this subscription has not yet been released.
func (r *ReleasableNotifiable) InUse() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.inUse
}

// Done marks the subscription no longer in use. Safe to call more than
// once and from either alias.
func (r *ReleasableNotifiable) Done() {
	r.s.mu.Lock()
	r.s.inUse = false
	r.s.mu.Unlock()
}

// KeepAlive is a no-op; see the Releasable doc comment.
func (r *ReleasableNotifiable) KeepAlive() {}

// Aggregate combines several Releasables (e.g. one per dependency a
// computed binding subscribed to) behind a single Releasable.
type Aggregate []Releasable

// Done releases every member.
func (a Aggregate) Done() {
	for _, r := range a {
		if r != nil {
			r.Done()
		}
	}
}

// KeepAlive keeps every member alive.
func (a Aggregate) KeepAlive() {
	for _, r := range a {
		if r != nil {
			r.KeepAlive()
		}
	}
}

// noop is a Releasable that does nothing; used where a subscription could
// not be established (e.g. an empty dependency set).
type noop struct{}

func (noop) Done()      {}
func (noop) KeepAlive() {}

// Noop returns a Releasable with no effect.
func Noop() Releasable { return noop{} }

// SubscriberList is the reusable "ordered list of live subscribers" every
// binding kind keeps (spec Data Model: "ordered list of subscribers").
// Entries are scrubbed lazily: Snapshot drops any subscriber whose owned
// Releasable has already been disposed.
type SubscriberList struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*ReleasableNotifiable
	order  []uint64
}

// NewSubscriberList creates an empty subscriber list.
func NewSubscriberList() *SubscriberList {
	return &SubscriberList{subs: make(map[uint64]*ReleasableNotifiable)}
}

// Add registers n and returns the Releasable the caller owns.
func (l *SubscriberList) Add(n Notifiable) Releasable {
	owned, internal := Wrap(n)
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = internal
	l.order = append(l.order, id)
	l.mu.Unlock()
	return owned
}

// Snapshot returns the currently live subscribers in registration order,
// scrubbing any that are no longer in use.
func (l *SubscriberList) Snapshot() []*ReleasableNotifiable {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := make([]*ReleasableNotifiable, 0, len(l.order))
	order := l.order[:0]
	for _, id := range l.order {
		sub, ok := l.subs[id]
		if !ok {
			continue
		}
		if !sub.InUse() {
			delete(l.subs, id)
			continue
		}
		live = append(live, sub)
		order = append(order, id)
	}
	l.order = order
	return live
}

// Fire calls MarkAsChanged on every live subscriber, scrubbing released
// ones first. Each call is isolated by the caller so one panicking
// subscriber never prevents the rest from firing.
func (l *SubscriberList) Fire(onEach func(Notifiable)) {
	for _, sub := range l.Snapshot() {
		onEach(sub)
	}
}
