package rope

import (
	"github.com/samber/lo"

	"github.com/coregx/binding"
	"github.com/coregx/binding/internal/ropecore"
	"github.com/coregx/binding/internal/seqdiff"
)

// FromStream attaches a channel of pre-built edit actions to a rope
// binding's edit pipeline: edits arrive
// asynchronously and flow through the same actor-queue/fan-out path a
// mutable rope's own edit calls use. The returned binding owns the
// stream: closing the channel closes the binding, ending every consumer.
func FromStream[T any, A comparable](edits <-chan EditAction[T, A]) Binding[T, A] {
	return FromStreamWithOptions(edits, Options[T, A]{})
}

// FromStreamWithOptions is FromStream with custom Options.
func FromStreamWithOptions[T any, A comparable](edits <-chan EditAction[T, A], opts Options[T, A]) Binding[T, A] {
	r := newRopeBinding[T, A](opts)
	go func() {
		for e := range edits {
			r.Edit(e)
		}
		r.Close()
	}()
	return r
}

// Computed builds a rope binding whose content is produced by f,
// re-evaluated automatically whenever a dependency f reads changes.
// Each successful evaluation emits a
// single Replace(0..old_len, new_cells) edit. f's dependencies are
// discovered the same way binding.Computed's are, via
// binding.NewEffect — a rope-computed has no single cached value to
// protect against a recompute race the way a value Computed does, so it
// reuses the root package's Effect driver (eager rerun on every upstream
// change) rather than the lazy when-changed-if-unchanged retry loop.
func Computed[T any, A comparable](f func() []T) Binding[T, A] {
	return ComputedWithOptions[T, A](f, Options[T, A]{})
}

// ComputedWithOptions is Computed with custom Options.
func ComputedWithOptions[T any, A comparable](f func() []T, opts Options[T, A]) Binding[T, A] {
	r := newRopeBinding[T, A](opts)
	eff := binding.NewEffectWithOptions(func() func() {
		cells := f()
		r.q.Sync(func() {
			oldLen := r.pull.Materialize().Len()
			r.applyEdit(Replace[T, A](Range{Start: 0, End: oldLen}, cells))
		})
		return nil
	}, binding.EffectOptions{OnPanic: opts.OnPanic})
	r.driverStop = eff.Stop
	return r
}

// ComputedDifference is Computed, but retains the cell sequence produced
// by the previous evaluation and emits the minimal set of Replace edits
// between it and the new one, via internal/seqdiff's Myers diff, instead
// of replacing the whole rope on every change.
func ComputedDifference[T comparable, A comparable](f func() []T) Binding[T, A] {
	return ComputedDifferenceWithOptions[T, A](f, Options[T, A]{})
}

// ComputedDifferenceWithOptions is ComputedDifference with custom
// Options.
func ComputedDifferenceWithOptions[T comparable, A comparable](f func() []T, opts Options[T, A]) Binding[T, A] {
	r := newRopeBinding[T, A](opts)
	var last []T
	eff := binding.NewEffectWithOptions(func() func() {
		cells := f()
		ops := seqdiff.Diff(last, cells)
		last = append([]T(nil), cells...)
		if len(ops) == 0 {
			return nil
		}
		r.q.Sync(func() {
			delta := 0
			for _, op := range ops {
				rng := Range{Start: op.OldStart + delta, End: op.OldEnd + delta}
				r.applyEdit(Replace[T, A](rng, op.New))
				delta += len(op.New) - (op.OldEnd - op.OldStart)
			}
		})
		return nil
	}, binding.EffectOptions{OnPanic: opts.OnPanic})
	r.driverStop = eff.Stop
	return r
}

// Chain relays a's edits followed by b's into a new rope: an edit to a is
// applied verbatim, an edit to b is shifted by the net length that a's
// relayed edits have added. Only edits made after Chain is called are
// relayed; cells already present in a or b at that moment are not copied
// into the result, and are not counted in the offset. The "retained" relay
// stream pattern this is grounded on comes from how another rope-binding
// design composes bound values by chaining their change streams.
func Chain[T any, A comparable](a, b Binding[T, A]) Binding[T, A] {
	return ChainWithOptions(a, b, Options[T, A]{})
}

// ChainWithOptions is Chain with custom Options.
func ChainWithOptions[T any, A comparable](a, b Binding[T, A], opts Options[T, A]) Binding[T, A] {
	out := newRopeBinding[T, A](opts)
	streamA := a.FollowChangesRetained()
	streamB := b.FollowChangesRetained()

	go chainRelay(out, streamA, streamB)
	out.driverStop = func() {
		streamA.Close()
		streamB.Close()
	}
	return out
}

// chainRelay interleaves streamA and streamB into out, always draining
// every edit currently available on streamA before looking at streamB.
// For a sequential, non-concurrent caller pattern (each source edit call
// blocks until fully applied and fanned out before the next call is made),
// this keeps the running offset used to shift b's edits consistent with
// a's length at the moment each b edit was issued. Across genuinely
// concurrent writers to a and b there is no global order to preserve in
// the first place.
func chainRelay[T any, A comparable](out *ropeBinding[T, A], streamA, streamB *Stream[T, A]) {
	aCh, bCh := streamA.C, streamB.C
	aLen := 0

	apply := func(e EditAction[T, A]) {
		out.q.Sync(func() { out.applyEdit(e) })
	}

	for aCh != nil || bCh != nil {
		for aCh != nil {
			select {
			case e, ok := <-aCh:
				if !ok {
					aCh = nil
					break
				}
				apply(e)
				aLen += editLengthDelta(e)
				continue
			default:
			}
			break
		}
		if aCh == nil && bCh == nil {
			break
		}
		select {
		case e, ok := <-aCh:
			if !ok {
				aCh = nil
				continue
			}
			apply(e)
			aLen += editLengthDelta(e)
		case e, ok := <-bCh:
			if !ok {
				bCh = nil
				continue
			}
			apply(shiftEdit(e, aLen))
		}
	}
	out.Close()
}

// Map returns a rope binding that relays every edit made to r after Map is
// called, with its cells transformed by f. Cells already present in r at
// that moment are not copied into the result.
func Map[T any, A comparable, U any](r Binding[T, A], f func(T) U) Binding[U, A] {
	return MapWithOptions[T, A, U](r, f, Options[U, A]{})
}

// MapWithOptions is Map with custom Options.
func MapWithOptions[T any, A comparable, U any](r Binding[T, A], f func(T) U, opts Options[U, A]) Binding[U, A] {
	out := newRopeBinding[U, A](opts)
	in := r.FollowChangesRetained()

	go func() {
		for e := range in.C {
			mapped := mapEdit(e, f)
			out.q.Sync(func() { out.applyEdit(mapped) })
		}
		out.Close()
	}()
	out.driverStop = in.Close
	return out
}

func mapEdit[T, U any, A comparable](e EditAction[T, A], f func(T) U) EditAction[U, A] {
	switch e.Kind {
	case ropecore.KindReplace, ropecore.KindReplaceAttributes:
		cells := lo.Map(e.Cells, func(c T, _ int) U { return f(c) })
		if e.Kind == ropecore.KindReplaceAttributes {
			return ropecore.ReplaceAttributes[U, A](e.Range, cells, e.Attr)
		}
		return ropecore.Replace[U, A](e.Range, cells)
	default:
		return ropecore.SetAttributes[U, A](e.Range, e.Attr)
	}
}
