//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// SchemeOptions mirrors cef_scheme_options_t.
type SchemeOptions int32

const (
	SchemeNone            SchemeOptions = 0
	SchemeStandard        SchemeOptions = 1 << 0
	SchemeLocal           SchemeOptions = 1 << 1
	SchemeDisplayIsolated SchemeOptions = 1 << 2
	SchemeSecure          SchemeOptions = 1 << 3
	SchemeCORSEnabled     SchemeOptions = 1 << 4
	SchemeCSPBypassing    SchemeOptions = 1 << 5
	SchemeFetchEnabled    SchemeOptions = 1 << 6
)

// SchemeRegistrar registers custom schemes. It is only valid during
// AppCallbacks.OnRegisterCustomSchemes.
type SchemeRegistrar struct {
	p *capi.SchemeRegistrar
}

// AddCustomScheme registers a custom scheme. It returns false on error or
// if the registrar is no longer valid.
func (r SchemeRegistrar) AddCustomScheme(name string, options SchemeOptions) bool {
	if r.p == nil || r.p.AddCustomScheme == 0 {
		return false
	}
	var ok bool
	err := withString(name, func(s uintptr) {
		ok = callInt(r.p.AddCustomScheme, uintptr(unsafe.Pointer(r.p)), s, uintptr(options)) != 0
	})
	return err == nil && ok
}

// AppCallbacks implements cef_app_t. Every field is optional.
type AppCallbacks struct {
	// OnBeforeCommandLineProcessing lets the application view and change
	// the command line before CEF and Chromium process it. processType is
	// "" for the browser process.
	OnBeforeCommandLineProcessing func(processType string, commandLine *CommandLine)

	// OnRegisterCustomSchemes registers custom schemes. It is called on
	// the main thread of each process.
	OnRegisterCustomSchemes func(registrar SchemeRegistrar)

	// GetResourceBundleHandler returns the handler for resource bundle
	// events, or nil.
	GetResourceBundleHandler func() *Handle

	// GetBrowserProcessHandler returns the handler for browser process
	// events, or nil.
	GetBrowserProcessHandler func() *refcount.Ref[capi.BrowserProcessHandler]

	// GetRenderProcessHandler returns the handler for render process
	// events, or nil.
	GetRenderProcessHandler func() *Handle
}

var (
	appOnce sync.Once
	appFns  struct {
		onBeforeCommandLineProcessing uintptr
		onRegisterCustomSchemes       uintptr
		getResourceBundleHandler      uintptr
		getBrowserProcessHandler      uintptr
		getRenderProcessHandler       uintptr
	}
)

func initAppCallbacks() {
	appOnce.Do(func() {
		fns := &appFns

		// void on_before_command_line_processing(self, const cef_string_t* process_type,
		//     cef_command_line_t* command_line)
		fns.onBeforeCommandLineProcessing = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, processType *capi.String, commandLine unsafe.Pointer) {
			cmd := newCommandLine(commandLine)
			dispatch("App.OnBeforeCommandLineProcessing", func() {
				cb, ok := wrap.Recover[*AppCallbacks](self)
				if !ok || cb.OnBeforeCommandLineProcessing == nil {
					return
				}
				cb.OnBeforeCommandLineProcessing(cefstring.Decode(processType), cmd)
			}, cmd)
		})

		// void on_register_custom_schemes(self, cef_scheme_registrar_t* registrar)
		fns.onRegisterCustomSchemes = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, registrar *capi.SchemeRegistrar) {
			dispatch("App.OnRegisterCustomSchemes", func() {
				cb, ok := wrap.Recover[*AppCallbacks](self)
				if !ok || cb.OnRegisterCustomSchemes == nil {
					return
				}
				cb.OnRegisterCustomSchemes(SchemeRegistrar{p: registrar})
			})
		})

		// cef_resource_bundle_handler_t* get_resource_bundle_handler(self)
		fns.getResourceBundleHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("App.GetResourceBundleHandler", func() {
				if cb, ok := wrap.Recover[*AppCallbacks](self); ok && cb.GetResourceBundleHandler != nil {
					ret = handOut(cb.GetResourceBundleHandler())
				}
			})
			return ret
		})

		// cef_browser_process_handler_t* get_browser_process_handler(self)
		fns.getBrowserProcessHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("App.GetBrowserProcessHandler", func() {
				if cb, ok := wrap.Recover[*AppCallbacks](self); ok && cb.GetBrowserProcessHandler != nil {
					ret = handOut(cb.GetBrowserProcessHandler())
				}
			})
			return ret
		})

		// cef_render_process_handler_t* get_render_process_handler(self)
		fns.getRenderProcessHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("App.GetRenderProcessHandler", func() {
				if cb, ok := wrap.Recover[*AppCallbacks](self); ok && cb.GetRenderProcessHandler != nil {
					ret = handOut(cb.GetRenderProcessHandler())
				}
			})
			return ret
		})
	})
}

// NewApp creates a cef_app_t backed by cb, ready to pass to cef_initialize
// or cef_execute_process. Only the non-nil fields of cb are installed.
func NewApp(cb *AppCallbacks) *refcount.Ref[capi.App] {
	if cb == nil {
		cb = &AppCallbacks{}
	}
	initAppCallbacks()
	fns := &appFns
	return wrap.New(cb, func(v *capi.App) {
		if cb.OnBeforeCommandLineProcessing != nil {
			v.OnBeforeCommandLineProcessing = fns.onBeforeCommandLineProcessing
		}
		if cb.OnRegisterCustomSchemes != nil {
			v.OnRegisterCustomSchemes = fns.onRegisterCustomSchemes
		}
		if cb.GetResourceBundleHandler != nil {
			v.GetResourceBundleHandler = fns.getResourceBundleHandler
		}
		if cb.GetBrowserProcessHandler != nil {
			v.GetBrowserProcessHandler = fns.getBrowserProcessHandler
		}
		if cb.GetRenderProcessHandler != nil {
			v.GetRenderProcessHandler = fns.getRenderProcessHandler
		}
	})
}
