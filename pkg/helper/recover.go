package helper

import (
	"fmt"
	"runtime/debug"

	"github.com/CloudNativeWorks/paperctl/pkg/logger"
)

// RecoverPanic recovers from a panic, logs the stack trace when the logger is
// initialized and turns the panic into an error stored in errp.
// Usage: defer helper.RecoverPanic("name", &err)
func RecoverPanic(name string, errp *error) {
	if r := recover(); r != nil {
		if logger.Initialized() {
			logger.NewLogger(name).Errorf("PANIC recovered in %s: %v\nStack: %s", name, r, debug.Stack())
		}
		if errp != nil {
			*errp = fmt.Errorf("internal error in %s: %v", name, r)
		}
	}
}
