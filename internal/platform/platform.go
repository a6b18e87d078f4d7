//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and library naming for gocef.
package platform

import (
	"path/filepath"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// gocef only supports 64-bit platforms because CEF ships no 32-bit purego target.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// FrameworkName is the macOS framework bundle that carries libcef.
const FrameworkName = "Chromium Embedded Framework.framework"

// LibraryName returns the platform-specific libcef filename.
//
// Examples:
//   - Linux:   "libcef.so"
//   - macOS:   "Chromium Embedded Framework.framework/Chromium Embedded Framework"
//   - Windows: "libcef.dll"
func LibraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(FrameworkName, "Chromium Embedded Framework")
	case "windows":
		return "libcef.dll"
	default: // linux, freebsd
		return "libcef.so"
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
