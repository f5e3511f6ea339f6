// Package actorqueue implements an actor-queue: a per-binding logical work
// queue that serializes submitted closures onto one worker goroutine, with
// three submission modes — Sync (block and run), Desync (fire and forget),
// and Future (run, get an awaitable result back).
//
// The worker goroutine's lifecycle is supervised by gopkg.in/tomb.v2, the
// pack's idiomatic goroutine-supervision primitive (declared in
// juju-juju's go.mod, used throughout that codebase's worker tree for
// exactly this "one goroutine, clean shutdown, propagate the reason" shape).
package actorqueue

import (
	"gopkg.in/tomb.v2"
)

type job struct {
	fn   func()
	done chan struct{}
}

// Queue serializes closures onto a single worker goroutine.
type Queue struct {
	t    tomb.Tomb
	jobs chan job
}

// New starts a Queue's worker goroutine.
func New() *Queue {
	q := &Queue{jobs: make(chan job, 64)}
	q.t.Go(q.loop)
	return q
}

func (q *Queue) loop() error {
	for {
		select {
		case j := <-q.jobs:
			j.fn()
			if j.done != nil {
				close(j.done)
			}
		case <-q.t.Dying():
			return q.drain()
		}
	}
}

// drain unblocks any jobs still buffered in the channel once the queue is
// dying, so a concurrent Sync caller's <-done never hangs because a
// competing job got the worker slot first.
func (q *Queue) drain() error {
	for {
		select {
		case j := <-q.jobs:
			if j.done != nil {
				close(j.done)
			}
		default:
			return nil
		}
	}
}

// Sync runs fn on the queue's worker goroutine and blocks until it has
// returned. If the queue is shutting down, Sync returns immediately
// without running fn.
func (q *Queue) Sync(fn func()) {
	done := make(chan struct{})
	select {
	case q.jobs <- job{fn: fn, done: done}:
	case <-q.t.Dying():
		return
	}
	select {
	case <-done:
	case <-q.t.Dying():
	}
}

// Desync submits fn to run on the worker goroutine without waiting for it
// to complete.
func (q *Queue) Desync(fn func()) {
	select {
	case q.jobs <- job{fn: fn}:
	case <-q.t.Dying():
	}
}

// Future runs fn on q's worker and returns a channel that receives its
// single result. Future is a free function, not a method, because Go does
// not allow a method to introduce its own type parameter.
func Future[T any](q *Queue, fn func() T) <-chan T {
	out := make(chan T, 1)
	q.Desync(func() {
		out <- fn()
	})
	return out
}

// Stop requests the worker goroutine shut down and waits for it to exit.
// Any future Sync/Desync call is a no-op once Stop has been called.
func (q *Queue) Stop() {
	q.t.Kill(nil)
	_ = q.t.Wait()
}

// Dying returns a channel closed once the queue has been asked to stop, so
// callers outside the queue (e.g. a consumer relay goroutine) can select on
// queue shutdown without reaching into the tomb directly.
func (q *Queue) Dying() <-chan struct{} {
	return q.t.Dying()
}
