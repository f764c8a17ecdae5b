// Package goroutine launches background work with panic containment.
package goroutine

import (
	"runtime/debug"

	"admincore/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic in fn is logged under name
// together with the stack instead of taking down the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer logPanic(log, name)
		fn()
	}()
}

func logPanic(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("background task panicked",
			"task", name,
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}
