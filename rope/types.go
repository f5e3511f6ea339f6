// Package rope implements an incremental-collection binding: a sequence
// of cells with attributed ranges that broadcasts structural edits to
// stream consumers instead of whole-value snapshots on every change. It is
// kept separate from the root package because it is the largest single
// component here and has its own edit-action wire shape (internal/ropecore).
//
// coregx/signals has no analogue of this component; its
// method names (read_cells, read_attributes, follow_changes,
// follow_changes_retained, chain, map) and consumer-stream shape are
// grounded in a rope binding design from another language, adapted to Go's
// channel/goroutine idioms in place of a poll_next/Waker protocol — see
// DESIGN.md.
package rope

import (
	"github.com/coregx/binding/internal/ropecore"
)

// Range, Kind, and EditAction are re-exported as Go 1.24+ generic type
// aliases so callers of this package never need to import
// internal/ropecore directly.
type (
	Range              = ropecore.Range
	Kind               = ropecore.Kind
	EditAction[T any, A comparable] = ropecore.EditAction[T, A]
)

const (
	KindReplace           = ropecore.KindReplace
	KindSetAttributes     = ropecore.KindSetAttributes
	KindReplaceAttributes = ropecore.KindReplaceAttributes
)

// Replace builds a Replace edit action.
func Replace[T any, A comparable](rng Range, cells []T) EditAction[T, A] {
	return ropecore.Replace[T, A](rng, cells)
}

// SetAttributes builds a SetAttributes edit action.
func SetAttributes[T any, A comparable](rng Range, attr A) EditAction[T, A] {
	return ropecore.SetAttributes[T, A](rng, attr)
}

// ReplaceAttributes builds a ReplaceAttributes edit action.
func ReplaceAttributes[T any, A comparable](rng Range, cells []T, attr A) EditAction[T, A] {
	return ropecore.ReplaceAttributes[T, A](rng, cells, attr)
}

func editLengthDelta[T any, A comparable](e EditAction[T, A]) int {
	switch e.Kind {
	case ropecore.KindReplace, ropecore.KindReplaceAttributes:
		return len(e.Cells) - e.Range.Len()
	default:
		return 0
	}
}

func shiftEdit[T any, A comparable](e EditAction[T, A], offset int) EditAction[T, A] {
	e.Range.Start += offset
	e.Range.End += offset
	return e
}
