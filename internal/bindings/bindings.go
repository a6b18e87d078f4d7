//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles locating and loading libcef with purego.
//
// Packages that call into CEF register their own function bindings against
// Lib() once IsLoaded reports true.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/internal/platform"
)

// ErrNotLoaded is returned when CEF functions are called before Load().
var ErrNotLoaded = errors.New("cef: libcef not loaded; call cef.Load() first")

// ErrLibraryNotFound is returned when libcef cannot be found.
var ErrLibraryNotFound = errors.New("cef: libcef not found")

// EnvPath names the directory searched first for libcef.
const EnvPath = "CEF_PATH"

var (
	libCEF  uintptr
	libPath string

	loaded  bool
	loadMu  sync.Mutex
	loadErr error
)

// IsLoaded returns true if libcef has been successfully loaded.
func IsLoaded() bool {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loaded
}

// Load locates and loads libcef. It is safe to call multiple times;
// once a load has succeeded or failed, later calls return the same result.
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded || loadErr != nil {
		return loadErr
	}

	path, err := FindLibrary()
	if err != nil {
		loadErr = err
		return loadErr
	}
	loadErr = open(path)
	return loadErr
}

// LoadFrom loads libcef from an explicit path, bypassing the search.
// It is a no-op if a library is already loaded. A failure does not affect
// later calls to Load.
func LoadFrom(path string) error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded {
		return nil
	}
	if err := open(path); err != nil {
		return err
	}
	loadErr = nil
	return nil
}

func open(path string) error {
	// RTLD_GLOBAL: the sandbox and helper libraries resolve symbols from libcef.
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading libcef from %s: %w", path, err)
	}
	libCEF = lib
	libPath = path
	loaded = true
	return nil
}

// FindLibrary searches for libcef and returns its full path.
func FindLibrary() (string, error) {
	name := platform.LibraryName()
	for _, dir := range LibrarySearchPaths() {
		full := filepath.Join(dir, name)
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	if dir := os.Getenv(EnvPath); dir != "" {
		return "", fmt.Errorf("%w: %s not in %s=%s", ErrLibraryNotFound, name, EnvPath, dir)
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific libcef search paths, most
// specific first.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv(EnvPath); dir != "" {
		paths = append(paths, dir)
	}

	var exeDir string
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}

	switch runtime.GOOS {
	case "linux", "freebsd":
		if exeDir != "" {
			paths = append(paths, exeDir)
		}
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
			"/opt/cef/Release",
		)

	case "darwin":
		// App bundles keep the framework in Contents/Frameworks next to
		// Contents/MacOS/<binary>.
		if exeDir != "" {
			paths = append(paths,
				filepath.Join(exeDir, "..", "Frameworks"),
				exeDir,
			)
		}
		if dyldPath := os.Getenv("DYLD_FRAMEWORK_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths, "/Library/Frameworks")

	case "windows":
		if exeDir != "" {
			paths = append(paths, exeDir)
		}
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
	}

	return paths
}

// Lib returns the libcef library handle, or 0 if not loaded.
func Lib() uintptr {
	loadMu.Lock()
	defer loadMu.Unlock()
	return libCEF
}

// Path returns the path libcef was loaded from, or empty string if not loaded.
func Path() string {
	loadMu.Lock()
	defer loadMu.Unlock()
	return libPath
}

// RegisterOptional binds fptr to name in lib if the symbol exists and
// reports whether it did. CEF builds differ in which helpers they export.
func RegisterOptional(fptr any, lib uintptr, name string) (ok bool) {
	defer func() {
		if recover() != nil { // purego.RegisterLibFunc panics if symbol is missing
			ok = false
		}
	}()
	purego.RegisterLibFunc(fptr, lib, name)
	return true
}
