//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
)

var (
	schemeOnce   sync.Once
	addScheme    uintptr
	schemesMu    sync.Mutex
	schemesAdded = map[string]SchemeOptions{}
)

func newFakeSchemeRegistrar() *capi.SchemeRegistrar {
	schemeOnce.Do(func() {
		addScheme = purego.NewCallback(func(_ purego.CDecl, _ unsafe.Pointer, name *capi.String, options int32) int32 {
			schemesMu.Lock()
			defer schemesMu.Unlock()
			schemesAdded[cefstring.Decode(name)] = SchemeOptions(options)
			return 1
		})
	})
	r := &capi.SchemeRegistrar{AddCustomScheme: addScheme}
	r.Base.Size = unsafe.Sizeof(*r)
	return r
}

func TestAppOnlySetSlots(t *testing.T) {
	defer checkLive(t)()

	app := NewApp(&AppCallbacks{
		OnBeforeCommandLineProcessing: func(string, *CommandLine) {},
	})
	defer app.Release()

	v := app.Ptr()
	if v.OnBeforeCommandLineProcessing == 0 {
		t.Error("OnBeforeCommandLineProcessing should be installed")
	}
	if v.OnRegisterCustomSchemes != 0 || v.GetResourceBundleHandler != 0 ||
		v.GetBrowserProcessHandler != 0 || v.GetRenderProcessHandler != 0 {
		t.Error("unset callbacks must leave NULL slots")
	}
}

func TestAppCommandLineProcessing(t *testing.T) {
	defer checkLive(t)()

	var gotType string
	app := NewApp(&AppCallbacks{
		OnBeforeCommandLineProcessing: func(processType string, cmd *CommandLine) {
			gotType = processType
			if err := cmd.AppendSwitch("off-screen-rendering-enabled"); err != nil {
				t.Error(err)
			}
		},
	})
	defer app.Release()

	state := &fakeCommandLine{}
	cmd := newFakeCommandLine(state)
	defer cmd.Release()

	processType, err := cefstring.New("renderer")
	if err != nil {
		t.Fatal(err)
	}
	defer processType.Free()

	v := app.Ptr()
	var fn func(self unsafe.Pointer, processType *capi.String, cmd unsafe.Pointer)
	purego.RegisterFunc(&fn, v.OnBeforeCommandLineProcessing)

	fn(unsafe.Pointer(v), processType.Raw(), give(cmd))
	if gotType != "renderer" {
		t.Errorf("process type = %q", gotType)
	}
	if _, ok := state.switches["off-screen-rendering-enabled"]; !ok {
		t.Error("switch was not appended")
	}

	// The browser process passes an empty process type.
	fn(unsafe.Pointer(v), nil, give(cmd))
	if gotType != "" {
		t.Errorf("process type = %q, want empty", gotType)
	}
	if !cmd.HasOneRef() {
		t.Error("command line references leaked")
	}
}

func TestAppClearedCallbackReleasesArgument(t *testing.T) {
	defer checkLive(t)()

	cb := &AppCallbacks{OnBeforeCommandLineProcessing: func(string, *CommandLine) {}}
	app := NewApp(cb)
	defer app.Release()

	// The slot stays installed; the trampoline finds no callback.
	cb.OnBeforeCommandLineProcessing = nil

	cmd := newFakeCommandLine(&fakeCommandLine{})
	defer cmd.Release()

	v := app.Ptr()
	var fn func(self unsafe.Pointer, processType *capi.String, cmd unsafe.Pointer)
	purego.RegisterFunc(&fn, v.OnBeforeCommandLineProcessing)
	fn(unsafe.Pointer(v), nil, give(cmd))

	if !cmd.HasOneRef() {
		t.Error("argument should be released when no callback handles it")
	}
}

func TestAppRegisterCustomSchemes(t *testing.T) {
	defer checkLive(t)()

	app := NewApp(&AppCallbacks{
		OnRegisterCustomSchemes: func(r SchemeRegistrar) {
			if !r.AddCustomScheme("app", SchemeStandard|SchemeSecure|SchemeFetchEnabled) {
				t.Error("AddCustomScheme failed")
			}
		},
	})
	defer app.Release()

	v := app.Ptr()
	var fn func(self unsafe.Pointer, registrar *capi.SchemeRegistrar)
	purego.RegisterFunc(&fn, v.OnRegisterCustomSchemes)
	fn(unsafe.Pointer(v), newFakeSchemeRegistrar())

	schemesMu.Lock()
	defer schemesMu.Unlock()
	if got, want := schemesAdded["app"], SchemeStandard|SchemeSecure|SchemeFetchEnabled; got != want {
		t.Errorf("options = %d, want %d", got, want)
	}

	if (SchemeRegistrar{}).AddCustomScheme("x", SchemeNone) {
		t.Error("zero registrar should fail")
	}
}

func TestAppHandlerGetters(t *testing.T) {
	defer checkLive(t)()

	handler := NewBrowserProcessHandler(&BrowserProcessHandlerCallbacks{})
	defer handler.Release()

	app := NewApp(&AppCallbacks{
		GetBrowserProcessHandler: func() *refcount.Ref[capi.BrowserProcessHandler] { return handler },
		GetRenderProcessHandler:  func() *Handle { return nil },
	})
	defer app.Release()

	v := app.Ptr()
	var getBPH, getRPH func(self unsafe.Pointer) unsafe.Pointer
	purego.RegisterFunc(&getBPH, v.GetBrowserProcessHandler)
	purego.RegisterFunc(&getRPH, v.GetRenderProcessHandler)

	for i := 0; i < 3; i++ {
		p := getBPH(unsafe.Pointer(v))
		if p != unsafe.Pointer(handler.Ptr()) {
			t.Fatalf("call %d returned %p, want %p", i, p, handler.Ptr())
		}
		// CEF owns the returned reference.
		refcount.MustAdopt((*capi.BrowserProcessHandler)(p)).Release()
	}
	if !handler.HasOneRef() {
		t.Error("getter should hand CEF its own reference and keep the caller's")
	}

	if p := getRPH(unsafe.Pointer(v)); p != nil {
		t.Errorf("nil handler should return NULL, got %p", p)
	}
}

func TestAppPanickingGetterReturnsNull(t *testing.T) {
	defer checkLive(t)()

	app := NewApp(&AppCallbacks{
		GetResourceBundleHandler: func() *Handle { panic("boom") },
	})
	defer app.Release()

	v := app.Ptr()
	var fn func(self unsafe.Pointer) unsafe.Pointer
	purego.RegisterFunc(&fn, v.GetResourceBundleHandler)
	if p := fn(unsafe.Pointer(v)); p != nil {
		t.Errorf("panicking getter returned %p, want NULL", p)
	}
}
