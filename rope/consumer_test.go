package rope

import (
	"testing"
	"time"
)

func TestConsumerState_PushDeliversInOrder(t *testing.T) {
	var detached uint64
	detachedSeen := false
	c := newConsumerState[int, struct{}](7, false, func(id uint64) {
		detached = id
		detachedSeen = true
	})

	c.push(Replace[int, struct{}](Range{Start: 0, End: 0}, []int{1}))
	c.push(Replace[int, struct{}](Range{Start: 1, End: 1}, []int{2}))
	c.push(Replace[int, struct{}](Range{Start: 2, End: 2}, []int{3}))

	for i, want := range [][]int{{1}, {2}, {3}} {
		select {
		case e := <-c.out:
			if !intsEqual(e.Cells, want) {
				t.Fatalf("edit %d: got %v, want %v", i, e.Cells, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("edit %d: timed out waiting for delivery", i)
		}
	}

	c.detach()
	if !detachedSeen || detached != 7 {
		t.Fatalf("onDetach not invoked with id 7: seen=%v id=%v", detachedSeen, detached)
	}
}

func TestConsumerState_EndClosesOutOnceDrained(t *testing.T) {
	c := newConsumerState[int, struct{}](1, false, nil)
	c.push(Replace[int, struct{}](Range{Start: 0, End: 0}, []int{1}))
	c.end()

	select {
	case e, ok := <-c.out:
		if !ok {
			t.Fatalf("out closed before buffered edit was delivered")
		}
		if !intsEqual(e.Cells, []int{1}) {
			t.Fatalf("got %v, want [1]", e.Cells)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for buffered edit")
	}

	select {
	case _, ok := <-c.out:
		if ok {
			t.Fatalf("expected out to close after the buffer drained")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for out to close")
	}
}

func TestConsumerState_DetachEndsRunWithoutDraining(t *testing.T) {
	c := newConsumerState[int, struct{}](1, false, nil)
	// Push more edits than anyone will ever read, then detach: run must
	// exit via the stop channel instead of blocking forever trying to
	// send the backlog into the unbuffered out channel.
	for i := 0; i < 5; i++ {
		c.push(Replace[int, struct{}](Range{Start: i, End: i}, []int{i}))
	}
	c.detach()

	select {
	case _, ok := <-c.out:
		if ok {
			t.Fatalf("expected out to close on detach, got a value instead")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for out to close after detach")
	}
}

func TestConsumerState_DetachIsIdempotent(t *testing.T) {
	c := newConsumerState[int, struct{}](1, false, func(uint64) {})
	c.detach()
	c.detach() // must not panic closing an already-closed stop channel
}
