package rope

import (
	"runtime/debug"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("binding.rope")

func recoverInto(onPanic func(any, []byte), where string) {
	if r := recover(); r != nil {
		stack := debug.Stack()
		if onPanic != nil {
			onPanic(r, stack)
			return
		}
		err := errors.Errorf("panic in %s: %v", where, r)
		logger.Errorf("%s\n%s", err, stack)
	}
}
