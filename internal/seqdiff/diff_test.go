package seqdiff

import (
	"reflect"
	"testing"
)

func apply[T any](old []T, ops []ReplaceOp[T]) []T {
	out := append([]T(nil), old...)
	delta := 0
	for _, op := range ops {
		start, end := op.OldStart+delta, op.OldEnd+delta
		next := append([]T(nil), out[:start]...)
		next = append(next, op.New...)
		next = append(next, out[end:]...)
		out = next
		delta += len(op.New) - (op.OldEnd - op.OldStart)
	}
	return out
}

func TestDiff_ReconstructsNewFromOld(t *testing.T) {
	cases := []struct {
		name     string
		old, new []int
	}{
		{"empty to empty", nil, nil},
		{"append", []int{1, 2, 3}, []int{1, 2, 3, 4, 5}},
		{"prepend", []int{3, 4, 5}, []int{1, 2, 3, 4, 5}},
		{"middle substitution", []int{1, 2, 3, 4, 5}, []int{1, 9, 9, 4, 5}},
		{"deletion", []int{1, 2, 3, 4, 5}, []int{1, 5}},
		{"insertion", []int{1, 5}, []int{1, 2, 3, 4, 5}},
		{"total replacement", []int{1, 2, 3}, []int{9, 8, 7}},
		{"no change", []int{1, 2, 3}, []int{1, 2, 3}},
		{"old empty", nil, []int{1, 2, 3}},
		{"new empty", []int{1, 2, 3}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := Diff(tc.old, tc.new)
			got := apply(tc.old, ops)
			if !reflect.DeepEqual(got, tc.new) {
				t.Fatalf("apply(old, Diff(old, new)) = %v, want %v (ops=%v)", got, tc.new, ops)
			}
		})
	}
}

func TestDiff_NoChangeProducesNoOps(t *testing.T) {
	old := []int{1, 2, 3}
	ops := Diff(old, []int{1, 2, 3})
	if len(ops) != 0 {
		t.Fatalf("expected no ops for identical sequences, got %v", ops)
	}
}

func TestDiff_CoalescesContiguousRuns(t *testing.T) {
	// Replacing 3 consecutive elements should produce a single op, not
	// three.
	ops := Diff([]int{1, 2, 3, 4}, []int{1, 9, 9, 9, 4})
	if len(ops) != 1 {
		t.Fatalf("expected a single coalesced op, got %d: %v", len(ops), ops)
	}
}
