package binding

import (
	"github.com/samber/lo"

	"github.com/coregx/binding/internal/actorqueue"
)

// defaultStreamChunkSize bounds how many events get folded into a single
// actor-queue submission when the producer has a large burst ready.
const defaultStreamChunkSize = 20

// StreamOptions configures BindStreamWithOptions.
type StreamOptions[T any] struct {
	// Equal is forwarded to the underlying value binding.
	Equal EqualFunc[T]

	// OnPanic is forwarded to the underlying value binding.
	OnPanic func(err any, stack []byte)

	// ChunkSize bounds how many events are folded per actor-queue
	// submission. Defaults to 20 if zero or negative.
	ChunkSize int
}

// BindStream folds a channel of events into a binding holding the latest
// reduced value. The channel is consumed in arrival order,
// on a dedicated worker goroutine serialized through an actor-queue tied
// to the binding; reads of the resulting binding via Get do not go
// through that queue and only take the value binding's read lock.
//
// BindStream takes ownership of stream: it must be closed by the
// producer for the consumer goroutine to exit. End-of-stream leaves the
// binding at its last value; the binding remains readable afterward.
func BindStream[T, E any](stream <-chan E, initial T, reduce func(T, E) T) Binding[T] {
	return BindStreamWithOptions(stream, initial, reduce, StreamOptions[T]{})
}

// BindStreamWithOptions is BindStream with a custom equality function,
// panic handler, and/or chunk size.
func BindStreamWithOptions[T, E any](stream <-chan E, initial T, reduce func(T, E) T, opts StreamOptions[T]) Binding[T] {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultStreamChunkSize
	}

	vb := NewWithOptions(initial, Options[T]{Equal: opts.Equal, OnPanic: opts.OnPanic}).(*valueBinding[T])
	q := actorqueue.New()
	go consumeStream(q, stream, vb, reduce, chunkSize)
	return vb
}

// consumeStream drains stream in arrival order, batching whatever is
// immediately available (without blocking further sends) and then
// re-chunking that batch into groups of at most chunkSize via
// github.com/samber/lo's Chunk — this keeps the per-actor-queue-submission
// fold bounded even when a fast producer has queued far more than
// chunkSize events between two drains of this goroutine.
func consumeStream[T, E any](q *actorqueue.Queue, stream <-chan E, vb *valueBinding[T], reduce func(T, E) T, chunkSize int) {
	defer q.Stop()
	for {
		ev, ok := <-stream
		if !ok {
			return
		}
		batch := []E{ev}
	drain:
		for {
			select {
			case ev2, ok2 := <-stream:
				if !ok2 {
					break drain
				}
				batch = append(batch, ev2)
			default:
				break drain
			}
		}
		for _, group := range lo.Chunk(batch, chunkSize) {
			applyBatch(q, vb, reduce, group)
		}
	}
}

// applyBatch folds one chunk's worth of events into vb on the
// stream-binding's actor-queue, one event at a time, so each event gets
// its own equality check and (at most) one subscriber firing.
func applyBatch[T, E any](q *actorqueue.Queue, vb *valueBinding[T], reduce func(T, E) T, batch []E) {
	q.Sync(func() {
		for _, ev := range batch {
			event := ev
			vb.Update(func(prev T) T { return reduce(prev, event) })
		}
	})
}
