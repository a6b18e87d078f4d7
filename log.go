//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"github.com/obinnaokechukwu/gocef/wrap"
	"go.uber.org/zap"
)

// Logger returns the package logger. It discards everything until
// SetLogger installs another.
func Logger() *zap.Logger {
	return wrap.Logger()
}

// SetLogger installs the logger used by this package and by callback
// trampolines. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	wrap.SetLogger(l)
}
