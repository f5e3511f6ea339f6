package binding

import (
	"sync/atomic"
	"testing"

	"github.com/coregx/binding/notify"
)

func TestWatcher_FirstGetAlwaysReadsThrough(t *testing.T) {
	b := New(7)
	w := b.Watch(notify.Func(func() {}))
	defer w.Done()

	if got := w.Get(); got != 7 {
		t.Fatalf("w.Get() = %d, want 7", got)
	}
}

func TestWatcher_DoneStopsNotifications(t *testing.T) {
	b := New(0)
	var fired atomic.Int32
	w := b.Watch(notify.Func(func() { fired.Add(1) }))
	w.Get() // the first read arms the latch

	b.Set(1)
	if fired.Load() != 1 {
		t.Fatalf("expected 1 notification, got %d", fired.Load())
	}

	w.Done()
	b.Set(2)
	if fired.Load() != 1 {
		t.Fatalf("expected no notification after Done, got %d", fired.Load())
	}
}
