package ropecore

import "sync"

// Pull is a pull-buffer wrapper around a Rope: it
// buffers edits as they arrive (from a mutable rope's edit calls, a
// from-stream relay, or a computed re-evaluation) and fires onEdit once
// per buffered edit, in order, for every edit — this is what a rope
// binding hooks to fan an edit out to every live consumer's queue the
// instant it is buffered, before it has been materialized into the
// readable Rope.
type Pull[T any, A comparable] struct {
	mu      sync.Mutex
	rope    *Rope[T, A]
	pending []EditAction[T, A]
	onEdit  func(EditAction[T, A])
}

// NewPull creates a Pull wrapping an initially empty Rope. onEdit may be
// nil.
func NewPull[T any, A comparable](onEdit func(EditAction[T, A])) *Pull[T, A] {
	return &Pull[T, A]{rope: New[T, A](), onEdit: onEdit}
}

// Edit buffers e and invokes onEdit, if set, with the same edit — callers
// that need to fan e out to consumer queues should do so from onEdit so
// that buffering and fan-out happen atomically from the caller's
// perspective (nothing can observe the buffer updated without also
// having been offered the edit, or vice versa).
func (p *Pull[T, A]) Edit(e EditAction[T, A]) {
	p.mu.Lock()
	p.pending = append(p.pending, e)
	p.mu.Unlock()
	if p.onEdit != nil {
		p.onEdit(e)
	}
}

// Materialize drains the pending buffer, applies every edit to the
// wrapped Rope in order, and returns it. Call this before every read
// (Len, ReadCells, ReadAttributes) so a read never misses a buffered edit.
func (p *Pull[T, A]) Materialize() *Rope[T, A] {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, e := range pending {
		e.Apply(p.rope)
	}
	return p.rope
}
