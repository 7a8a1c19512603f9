package safe

import (
	"FProject/logger"
)

// Go starts a goroutine that recovers from panic so a single
// handler crash does not take the whole process down.
func Go(name string, f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] %s panic recovered: %v", name, r)
			}
		}()
		f()
	}()
}

// Recover is the deferred form for loops that must keep running.
func Recover(name string) {
	if r := recover(); r != nil {
		logger.Errorf("[safe.Recover] %s panic recovered: %v", name, r)
	}
}
