//go:build !ios && !android && (amd64 || arm64)

// Package cef lets Go code implement and call Chromium Embedded Framework
// interfaces without CGO, using purego.
//
// Host-side interfaces (App, Client, RenderHandler and the rest) are built
// from callback structs: every non-nil func field is installed in the
// matching C slot and every nil field leaves the slot NULL, so CEF applies its
// default. CEF-side objects (Browser, URLRequest, CommandLine) are reached
// through thin wrappers over a refcount.Ref.
//
// The lower layers are available directly: capi for C layouts, refcount for
// handles, wrap for adapting vtables and cefstring for strings.
package cef

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/internal/bindings"
	"github.com/obinnaokechukwu/gocef/wrap"
	"go.uber.org/zap"
)

// Load locates and loads libcef. The CEF_PATH environment variable is
// searched first. It is safe to call multiple times.
func Load() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	Logger().Debug("cef: library loaded", zap.String("path", bindings.Path()))
	return nil
}

// LoadFrom loads libcef from an explicit path.
func LoadFrom(path string) error {
	if err := bindings.LoadFrom(path); err != nil {
		return fmt.Errorf("cef: load %s: %w", path, err)
	}
	Logger().Debug("cef: library loaded", zap.String("path", bindings.Path()))
	return nil
}

// IsLoaded returns true if libcef has been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// LibraryPath returns the path libcef was loaded from.
func LibraryPath() string {
	return bindings.Path()
}

// Entries for VersionInfo, matching cef_version_info().
const (
	VersionMajor = iota
	VersionMinor
	VersionPatch
	VersionCommit
	ChromeVersionMajor
	ChromeVersionMinor
	ChromeVersionBuild
	ChromeVersionPatch
)

var (
	apiOnce sync.Once

	cefVersionInfo       func(entry int32) int32
	cefAPIHash           func(entry int32) *byte
	cefDoMessageLoopWork func()
	cefShutdown          func()
	cefURLRequestCreate  func(request, client, requestContext unsafe.Pointer) *capi.URLRequest
)

// api binds the exported libcef functions used by this package.
func api() error {
	if !bindings.IsLoaded() {
		return ErrNotLoaded
	}
	apiOnce.Do(func() {
		lib := bindings.Lib()
		bindings.RegisterOptional(&cefVersionInfo, lib, "cef_version_info")
		bindings.RegisterOptional(&cefAPIHash, lib, "cef_api_hash")
		bindings.RegisterOptional(&cefDoMessageLoopWork, lib, "cef_do_message_loop_work")
		bindings.RegisterOptional(&cefShutdown, lib, "cef_shutdown")
		bindings.RegisterOptional(&cefURLRequestCreate, lib, "cef_urlrequest_create")
	})
	return nil
}

// VersionInfo returns one component of the loaded CEF or Chromium version.
func VersionInfo(entry int) (int, error) {
	if err := api(); err != nil {
		return 0, err
	}
	if cefVersionInfo == nil {
		return 0, fmt.Errorf("cef: cef_version_info unavailable: %w", ErrNotLoaded)
	}
	return int(cefVersionInfo(int32(entry))), nil
}

// Version returns the loaded CEF version as "major.minor.patch".
func Version() (string, error) {
	var v [3]int
	for i := range v {
		n, err := VersionInfo(VersionMajor + i)
		if err != nil {
			return "", err
		}
		v[i] = n
	}
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2]), nil
}

// APIHash returns the API hash of the loaded library. entry 0 is the
// platform hash, 1 the universal hash and 2 the commit hash.
func APIHash(entry int) (string, error) {
	if err := api(); err != nil {
		return "", err
	}
	if cefAPIHash == nil {
		return "", fmt.Errorf("cef: cef_api_hash unavailable: %w", ErrNotLoaded)
	}
	return goString(cefAPIHash(int32(entry))), nil
}

// DoMessageLoopWork runs one iteration of CEF message loop processing. It
// must be called on the thread that called cef_initialize.
func DoMessageLoopWork() error {
	if err := api(); err != nil {
		return err
	}
	if cefDoMessageLoopWork == nil {
		return fmt.Errorf("cef: cef_do_message_loop_work unavailable: %w", ErrNotLoaded)
	}
	cefDoMessageLoopWork()
	return nil
}

// Shutdown shuts CEF down. It must be called on the main application
// thread before the process exits.
func Shutdown() error {
	if err := api(); err != nil {
		return err
	}
	if cefShutdown == nil {
		return fmt.Errorf("cef: cef_shutdown unavailable: %w", ErrNotLoaded)
	}
	cefShutdown()
	if n := wrap.Live(); n > 0 {
		Logger().Warn("cef: wrapped objects still referenced at shutdown", zap.Int("live", n))
	}
	return nil
}

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
