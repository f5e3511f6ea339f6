package binding

import (
	"sync/atomic"
	"testing"

	"github.com/coregx/binding/notify"
)

func TestNew_Get(t *testing.T) {
	b := New(42)
	if got := b.Get(); got != 42 {
		t.Errorf("New(42).Get() = %d, want 42", got)
	}
}

func TestValue_Set(t *testing.T) {
	b := New(0)
	b.Set(10)
	if got := b.Get(); got != 10 {
		t.Errorf("after Set(10), Get() = %d, want 10", got)
	}
	b.Set(20)
	if got := b.Get(); got != 20 {
		t.Errorf("after Set(20), Get() = %d, want 20", got)
	}
}

func TestValue_Update(t *testing.T) {
	b := New(5)
	b.Update(func(v int) int { return v * 2 })
	if got := b.Get(); got != 10 {
		t.Errorf("after Update(*2), Get() = %d, want 10", got)
	}
}

// TestValue_EqualSuppressesNotification checks that Set with an
// Equal-equivalent value does not fire a watcher notification.
func TestValue_EqualSuppressesNotification(t *testing.T) {
	b := New(1)
	var fired atomic.Int32
	w := b.Watch(notify.Func(func() { fired.Add(1) }))
	defer w.Done()
	w.Get() // the first read arms the latch

	b.Set(1) // equal to current value
	if fired.Load() != 0 {
		t.Fatalf("Set with an equal value must not notify, got %d", fired.Load())
	}

	b.Set(2)
	if fired.Load() != 1 {
		t.Fatalf("Set with a different value must notify once, got %d", fired.Load())
	}
}

// TestValue_WatchLatchesAtMostOnce verifies that several Sets between two
// Gets only ever notify once, and Get always returns the latest value.
func TestValue_WatchLatchesAtMostOnce(t *testing.T) {
	b := New(0)
	var fired atomic.Int32
	w := b.Watch(notify.Func(func() { fired.Add(1) }))
	defer w.Done()
	w.Get() // the first read arms the latch

	b.Set(1)
	b.Set(2)
	b.Set(3)

	if fired.Load() != 1 {
		t.Fatalf("expected exactly 1 notification for a burst of sets, got %d", fired.Load())
	}
	if got := w.Get(); got != 3 {
		t.Errorf("Get() = %d, want 3 (latest value)", got)
	}

	b.Set(4)
	if fired.Load() != 2 {
		t.Fatalf("expected the latch to re-arm after Get, got %d", fired.Load())
	}
}

func TestValue_CustomEqual(t *testing.T) {
	type point struct{ x, y int }
	var calls atomic.Int32
	b := NewWithOptions(point{0, 0}, Options[point]{
		Equal: func(a, c point) bool { return a.x == c.x },
	})
	w := b.Watch(notify.Func(func() { calls.Add(1) }))
	defer w.Done()
	w.Get() // the first read arms the latch

	b.Set(point{0, 99}) // x unchanged, so Equal reports no change
	if calls.Load() != 0 {
		t.Fatalf("expected no notification for equal x, got %d calls", calls.Load())
	}

	b.Set(point{1, 99})
	if calls.Load() != 1 {
		t.Fatalf("expected 1 notification for changed x, got %d calls", calls.Load())
	}
}

func TestValue_WhenChangedReleases(t *testing.T) {
	b := New(0)
	var calls atomic.Int32
	rel := b.WhenChanged(notify.Func(func() { calls.Add(1) }))

	b.Set(1)
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call before release, got %d", calls.Load())
	}

	rel.Done()
	b.Set(2)
	if calls.Load() != 1 {
		t.Fatalf("expected no calls after release, got %d", calls.Load())
	}
}
