package rope

import (
	"testing"
	"time"

	"github.com/coregx/binding"
)

// TestRope_S4 is scenario S4: a consumer opened before an edit on a fresh
// mutable rope receives exactly that one Replace action, then nothing.
func TestRope_S4(t *testing.T) {
	r := New[int, struct{}]()
	defer r.Close()

	stream := r.FollowChanges()
	defer stream.Close()

	r.Replace(Range{Start: 0, End: 0}, []int{1, 2, 3, 4})

	select {
	case e := <-stream.C:
		if e.Kind != KindReplace || e.Range != (Range{Start: 0, End: 0}) || !intsEqual(e.Cells, []int{1, 2, 3, 4}) {
			t.Fatalf("got %+v, want Replace(0..0, [1 2 3 4])", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the edit")
	}

	select {
	case e, ok := <-stream.C:
		if ok {
			t.Fatalf("expected no further edit, got %+v", e)
		}
	default:
	}
}

// TestRope_S5 is scenario S5: a computed rope re-slices [0, n) as n
// changes, emitting one Replace per change, converging to the final slice.
func TestRope_S5(t *testing.T) {
	n := binding.New(0)
	r := Computed[int, struct{}](func() []int {
		end := n.Get()
		out := make([]int, end)
		for i := range out {
			out[i] = i
		}
		return out
	})
	defer r.Close()
	stream := r.FollowChanges()
	defer stream.Close()

	for _, v := range []int{1, 3, 2, 10} {
		n.Set(v)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Len() == 10 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	got := r.ReadCells(Range{Start: 0, End: r.Len()})
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if !intsEqual(got, want) {
		t.Fatalf("final cells = %v, want %v", got, want)
	}
}

// TestRope_S6 is scenario S6: chaining two mutable ropes, with edits
// interleaved between the two sources, keeps the result in sync with
// offsets shifted by the current length of the left-hand source.
func TestRope_S6(t *testing.T) {
	lhs := New[int, struct{}]()
	rhs := New[int, struct{}]()
	defer lhs.Close()
	defer rhs.Close()

	chained := Chain[int, struct{}](lhs, rhs)
	defer chained.Close()

	lhs.Replace(Range{Start: 0, End: 0}, []int{1, 2, 3})
	waitForLen(t, chained, 3)

	rhs.Replace(Range{Start: 0, End: 0}, []int{10, 11, 12})
	waitForLen(t, chained, 6)

	lhs.Replace(Range{Start: 1, End: 2}, []int{4, 5, 6})
	waitForLen(t, chained, 8)

	rhs.Replace(Range{Start: 1, End: 2}, []int{20, 21, 22})
	waitForLen(t, chained, 10)

	got := chained.ReadCells(Range{Start: 0, End: 10})
	want := []int{1, 4, 5, 6, 3, 10, 20, 21, 22, 12}
	if !intsEqual(got, want) {
		t.Fatalf("chained cells = %v, want %v", got, want)
	}
}

func waitForLen[T any, A comparable](t *testing.T, b Binding[T, A], n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.Len() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for Len() == %d, got %d", n, b.Len())
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
