package actorqueue

import (
	"testing"
	"time"
)

func TestQueue_SyncRunsInOrder(t *testing.T) {
	q := New()
	defer q.Stop()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Sync(func() { order = append(order, i) })
	}

	want := []int{0, 1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestQueue_DesyncRunsEventually(t *testing.T) {
	q := New()
	defer q.Stop()

	done := make(chan struct{})
	q.Desync(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the desynced job to run")
	}
}

func TestFuture_ReturnsResult(t *testing.T) {
	q := New()
	defer q.Stop()

	out := Future(q, func() int { return 42 })
	select {
	case v := <-out:
		if v != 42 {
			t.Fatalf("Future result = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the future")
	}
}

func TestQueue_SyncAfterStopReturnsImmediately(t *testing.T) {
	q := New()
	q.Stop()

	done := make(chan struct{})
	go func() {
		q.Sync(func() { t.Error("fn must not run after Stop") })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sync did not return promptly after Stop")
	}
}
