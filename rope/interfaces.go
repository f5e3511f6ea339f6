package rope

import (
	"github.com/coregx/binding"
	"github.com/coregx/binding/notify"
)

// Binding is the read-only surface of a rope binding: get,
// watch, when_changed, plus the rope-specific reads and the two
// follow-changes constructors and the two combinators.
type Binding[T any, A comparable] interface {
	// Len returns the current cell count, pulling any pending edits into
	// the materialized rope first and registering a dependency in the
	// ambient context.
	Len() int

	// ReadCells returns a copy of the cells in rng.
	ReadCells(rng Range) []T

	// ReadAttributes returns the attribute at pos.
	ReadAttributes(pos int) A

	// Watch creates a Watcher over this rope's cell snapshot.
	Watch(n notify.Notifiable) *binding.Watcher[[]T]

	// WhenChanged attaches n to this rope's subscriber list.
	WhenChanged(n notify.Notifiable) notify.Releasable

	// FollowChanges registers a new non-retained consumer stream: it
	// ends once every handle on this rope binding is closed.
	FollowChanges() *Stream[T, A]

	// FollowChangesRetained registers a new consumer stream that itself
	// counts as a handle keeping the rope alive, for internal relays
	// (Chain, Map) that must keep consuming even after the caller-visible
	// handle is gone.
	FollowChangesRetained() *Stream[T, A]

	// Chain returns a rope binding relaying this rope's edits followed by
	// other's, as the package-level Chain does (cells already present when
	// Chain is called are not copied).
	Chain(other Binding[T, A]) Binding[T, A]

	// Close releases this handle. Once every handle (including retained
	// streams) is closed, every live consumer stream observes
	// end-of-stream.
	Close()
}

// MutableBinding is a writable rope Binding.
type MutableBinding[T any, A comparable] interface {
	Binding[T, A]

	// Replace splices cells into rng.
	Replace(rng Range, cells []T)

	// Extend appends cells to the end.
	Extend(cells []T)

	// RetainCells keeps only cells for which keep returns true, replacing
	// the whole rope with the filtered sequence in one edit.
	RetainCells(keep func(T) bool)

	// SetAttributes sets attr uniformly over rng without touching cells.
	SetAttributes(rng Range, attr A)

	// ReplaceAttributes splices cells into rng, setting attr uniformly
	// over the inserted range.
	ReplaceAttributes(rng Range, cells []T, attr A)

	// Edit applies an arbitrary pre-built EditAction.
	Edit(e EditAction[T, A])
}
