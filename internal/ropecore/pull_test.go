package ropecore

import "testing"

func TestPull_EditBuffersAndFiresCallback(t *testing.T) {
	var seen []EditAction[int, struct{}]
	p := NewPull[int, struct{}](func(e EditAction[int, struct{}]) {
		seen = append(seen, e)
	})

	e := Replace[int, struct{}](Range{Start: 0, End: 0}, []int{1, 2})
	p.Edit(e)

	if len(seen) != 1 || seen[0].Kind != KindReplace {
		t.Fatalf("onEdit callback did not observe the edit: %+v", seen)
	}

	r := p.Materialize()
	if got := r.ReadCells(Range{Start: 0, End: r.Len()}); !intsEqual(got, []int{1, 2}) {
		t.Fatalf("cells after Materialize = %v, want [1 2]", got)
	}
}

func TestPull_MaterializeAppliesInOrder(t *testing.T) {
	p := NewPull[int, struct{}](nil)
	p.Edit(Replace[int, struct{}](Range{Start: 0, End: 0}, []int{1, 2, 3}))
	p.Edit(Replace[int, struct{}](Range{Start: 1, End: 2}, []int{20}))

	r := p.Materialize()
	if got := r.ReadCells(Range{Start: 0, End: r.Len()}); !intsEqual(got, []int{1, 20, 3}) {
		t.Fatalf("cells = %v, want [1 20 3]", got)
	}
}

func TestEditAction_ApplyDispatchesByKind(t *testing.T) {
	r := New[int, string]()
	r.Replace(Range{Start: 0, End: 0}, []int{1, 2, 3})

	SetAttributes[int, string](Range{Start: 0, End: 2}, "x").Apply(r)
	if got := r.ReadAttributes(0); got != "x" {
		t.Fatalf("attr(0) = %q, want %q", got, "x")
	}
	if got := r.ReadAttributes(2); got != "" {
		t.Fatalf("attr(2) = %q, want zero value", got)
	}
}
