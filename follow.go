package binding

import "github.com/coregx/binding/notify"

// FollowStream is the stream side of the Follow adapter: a
// channel of a binding's latest values, plus the explicit teardown Go's
// lack of destructors requires in place of "dropping the stream releases
// the watcher".
type FollowStream[T any] struct {
	// C delivers the binding's value once at subscribe time and again on
	// every subsequent change, collapsing any changes that arrive faster
	// than the consumer reads.
	C <-chan T

	watcher *Watcher[T]
	stop    chan struct{}
}

// Close releases the underlying watcher and stops the relay goroutine.
// After Close, C is closed once any in-flight send completes.
func (f *FollowStream[T]) Close() {
	select {
	case <-f.stop:
	default:
		close(f.stop)
	}
	f.watcher.Done()
}

// Follow turns b into a stream of its latest values: the
// initial value is always delivered once, and the stream relies on a
// Watcher internally, so intermediate values between two consecutive
// reads of the stream are collapsed to the latest rather than queued.
func Follow[T any](b Binding[T]) *FollowStream[T] {
	out := make(chan T, 1)
	wake := make(chan struct{}, 1)
	stop := make(chan struct{})

	fs := &FollowStream[T]{C: out, stop: stop}
	fs.watcher = b.Watch(notify.Func(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}))

	go func() {
		defer close(out)
		select {
		case out <- fs.watcher.Get():
		case <-stop:
			return
		}
		for {
			select {
			case <-wake:
				select {
				case out <- fs.watcher.Get():
				case <-stop:
					return
				}
			case <-stop:
				return
			}
		}
	}()

	return fs
}
