//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"errors"

	"github.com/obinnaokechukwu/gocef/internal/bindings"
	"github.com/obinnaokechukwu/gocef/refcount"
)

// Common errors
var (
	// ErrNotLoaded indicates libcef is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates libcef could not be located.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrNullHandle indicates a native object pointer was NULL.
	ErrNullHandle = refcount.ErrNullHandle

	// ErrClosed indicates the object has already been released.
	ErrClosed = errors.New("cef: object is released")
)
