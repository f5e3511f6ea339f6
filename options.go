package binding

// EqualFunc compares two values for equality. Value bindings use it to
// suppress Set calls that don't actually change anything.
type EqualFunc[T any] func(a, b T) bool

// Options configures a value or computed binding.
type Options[T any] struct {
	// Equal is an optional custom equality function. If nil, a value
	// binding compares old and new values with reflect.DeepEqual (so two
	// non-nil funcs never compare equal, and such a Set always notifies).
	Equal EqualFunc[T]

	// OnPanic is an optional custom panic handler for subscriber and
	// compute-function panics. If nil, panics are logged via this
	// package's logger and execution continues; one panicking subscriber
	// never prevents the rest from firing.
	OnPanic func(err any, stack []byte)
}
