package binding

import (
	"runtime/debug"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

// logger is this package's structured logger, following coregx/signals'
// convention of a package-level logger rather than threading one through
// every constructor (juju/loggo/v2 is declared in juju-juju's go.mod and
// is the logging stack used throughout that codebase).
var logger = loggo.GetLogger("binding")

// recoverInto is the shared panic boundary every user callback (Set/Update
// subscribers, Computed functions, Effect bodies) runs inside. It replaces
// per-call-site `if r := recover(); ...; log.Printf(...)`
// blocks (as in signal.go's notifySubscribers, computed.go's Get/markDirty) with
// one helper, matching the generalized Options[T].OnPanic contract: the
// caller-supplied handler runs if present, otherwise the panic is logged
// via errors.Errorf/logger.Errorf and swallowed so one bad callback never
// brings down a fan-out.
func recoverInto(onPanic func(any, []byte), where string) {
	if r := recover(); r != nil {
		recoverFrom(r, onPanic, where)
	}
}

// recoverFrom is recoverInto's logic split out for callers that have
// already captured the recovered value themselves (e.g. to decide what
// to return from the panicking function before this helper logs it).
func recoverFrom(r any, onPanic func(any, []byte), where string) {
	stack := debug.Stack()
	if onPanic != nil {
		onPanic(r, stack)
		return
	}
	err := errors.Errorf("panic in %s: %v", where, r)
	logger.Errorf("%s\n%s", err, stack)
}
