//go:build !ios && !android && (amd64 || arm64)

package wrap

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger. It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the package logger. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// Guard runs a trampoline body. A panic must not unwind into CEF, so Guard
// recovers it, logs it, and reports false. The trampoline then returns
// whatever safe default it held before calling fn.
func Guard(name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("cef: callback panicked",
				zap.String("callback", name),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			ok = false
		}
	}()
	fn()
	return true
}
