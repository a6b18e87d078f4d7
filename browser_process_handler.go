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

// PreferenceRegistrar is the cef_preference_registrar_t passed to
// OnRegisterCustomPreferences. It is only valid during that call.
type PreferenceRegistrar struct {
	p *capi.PreferenceRegistrar
}

// Raw returns the native registrar for use with cef_value_t bindings.
func (r PreferenceRegistrar) Raw() unsafe.Pointer {
	return unsafe.Pointer(r.p)
}

// BrowserProcessHandlerCallbacks implements cef_browser_process_handler_t.
// Callbacks run on the browser process UI thread unless noted.
type BrowserProcessHandlerCallbacks struct {
	// OnRegisterCustomPreferences registers custom preferences before the
	// global or a request context preference store is created.
	OnRegisterCustomPreferences func(typ PreferencesType, registrar PreferenceRegistrar)

	// OnContextInitialized is called once CEF has initialized.
	OnContextInitialized func()

	// OnBeforeChildProcessLaunch may add switches to a child process
	// command line. It is called on the launcher thread.
	OnBeforeChildProcessLaunch func(commandLine *CommandLine)

	// OnAlreadyRunningAppRelaunch is called when a second instance starts
	// with the same root cache path. Return true if the relaunch was
	// handled.
	OnAlreadyRunningAppRelaunch func(commandLine *CommandLine, currentDirectory string) bool

	// OnScheduleMessagePumpWork asks for DoMessageLoopWork to be called on
	// the main thread after delayMs milliseconds. It may be called on any
	// thread. See MessagePump.
	OnScheduleMessagePumpWork func(delayMs int64)

	// GetDefaultClient returns the client used for browsers created
	// without one, or nil.
	GetDefaultClient func() *refcount.Ref[capi.Client]
}

var (
	browserProcessHandlerOnce sync.Once
	browserProcessHandlerFns  struct {
		onRegisterCustomPreferences uintptr
		onContextInitialized        uintptr
		onBeforeChildProcessLaunch  uintptr
		onAlreadyRunningAppRelaunch uintptr
		onScheduleMessagePumpWork   uintptr
		getDefaultClient            uintptr
	}
)

func initBrowserProcessHandlerCallbacks() {
	browserProcessHandlerOnce.Do(func() {
		fns := &browserProcessHandlerFns

		// void on_register_custom_preferences(self, cef_preferences_type_t type,
		//     cef_preference_registrar_t* registrar)
		fns.onRegisterCustomPreferences = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, typ int32, registrar *capi.PreferenceRegistrar) {
			dispatch("BrowserProcessHandler.OnRegisterCustomPreferences", func() {
				cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self)
				if !ok || cb.OnRegisterCustomPreferences == nil {
					return
				}
				cb.OnRegisterCustomPreferences(PreferencesType(typ), PreferenceRegistrar{p: registrar})
			})
		})

		// void on_context_initialized(self)
		fns.onContextInitialized = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			dispatch("BrowserProcessHandler.OnContextInitialized", func() {
				if cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self); ok && cb.OnContextInitialized != nil {
					cb.OnContextInitialized()
				}
			})
		})

		// void on_before_child_process_launch(self, cef_command_line_t* command_line)
		fns.onBeforeChildProcessLaunch = purego.NewCallback(func(_ purego.CDecl, self, commandLine unsafe.Pointer) {
			cmd := newCommandLine(commandLine)
			dispatch("BrowserProcessHandler.OnBeforeChildProcessLaunch", func() {
				cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self)
				if !ok || cb.OnBeforeChildProcessLaunch == nil {
					return
				}
				cb.OnBeforeChildProcessLaunch(cmd)
			}, cmd)
		})

		// int on_already_running_app_relaunch(self, cef_command_line_t* command_line,
		//     const cef_string_t* current_directory)
		fns.onAlreadyRunningAppRelaunch = purego.NewCallback(func(_ purego.CDecl, self, commandLine unsafe.Pointer, currentDirectory *capi.String) int32 {
			cmd := newCommandLine(commandLine)
			var ret int32
			dispatch("BrowserProcessHandler.OnAlreadyRunningAppRelaunch", func() {
				cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self)
				if !ok || cb.OnAlreadyRunningAppRelaunch == nil {
					return
				}
				ret = wrap.Bool(cb.OnAlreadyRunningAppRelaunch(cmd, cefstring.Decode(currentDirectory)))
			}, cmd)
			return ret
		})

		// void on_schedule_message_pump_work(self, int64_t delay_ms)
		fns.onScheduleMessagePumpWork = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, delayMs int64) {
			dispatch("BrowserProcessHandler.OnScheduleMessagePumpWork", func() {
				if cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self); ok && cb.OnScheduleMessagePumpWork != nil {
					cb.OnScheduleMessagePumpWork(delayMs)
				}
			})
		})

		// cef_client_t* get_default_client(self)
		fns.getDefaultClient = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("BrowserProcessHandler.GetDefaultClient", func() {
				if cb, ok := wrap.Recover[*BrowserProcessHandlerCallbacks](self); ok && cb.GetDefaultClient != nil {
					ret = handOut(cb.GetDefaultClient())
				}
			})
			return ret
		})
	})
}

// NewBrowserProcessHandler creates a cef_browser_process_handler_t backed
// by cb. Only the non-nil fields of cb are installed.
func NewBrowserProcessHandler(cb *BrowserProcessHandlerCallbacks) *refcount.Ref[capi.BrowserProcessHandler] {
	if cb == nil {
		cb = &BrowserProcessHandlerCallbacks{}
	}
	initBrowserProcessHandlerCallbacks()
	fns := &browserProcessHandlerFns
	return wrap.New(cb, func(v *capi.BrowserProcessHandler) {
		if cb.OnRegisterCustomPreferences != nil {
			v.OnRegisterCustomPreferences = fns.onRegisterCustomPreferences
		}
		if cb.OnContextInitialized != nil {
			v.OnContextInitialized = fns.onContextInitialized
		}
		if cb.OnBeforeChildProcessLaunch != nil {
			v.OnBeforeChildProcessLaunch = fns.onBeforeChildProcessLaunch
		}
		if cb.OnAlreadyRunningAppRelaunch != nil {
			v.OnAlreadyRunningAppRelaunch = fns.onAlreadyRunningAppRelaunch
		}
		if cb.OnScheduleMessagePumpWork != nil {
			v.OnScheduleMessagePumpWork = fns.onScheduleMessagePumpWork
		}
		if cb.GetDefaultClient != nil {
			v.GetDefaultClient = fns.getDefaultClient
		}
	})
}
