//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// ClientCallbacks implements cef_client_t. The handler getters not listed
// here always return NULL, which tells CEF there is no such handler.
type ClientCallbacks struct {
	// GetLifeSpanHandler returns the handler for browser life span
	// events, or nil. The callback keeps its reference; CEF receives its
	// own.
	GetLifeSpanHandler func() *refcount.Ref[capi.LifeSpanHandler]

	// GetRenderHandler returns the handler for windowless rendering
	// events, or nil.
	GetRenderHandler func() *refcount.Ref[capi.RenderHandler]

	// OnProcessMessageReceived is called when a message arrives from
	// another process. Return true if the message was handled. The
	// arguments are borrowed for the duration of the call.
	OnProcessMessageReceived func(browser *Browser, frame *Handle, source ProcessID, message *Handle) bool
}

var (
	clientOnce sync.Once
	clientFns  struct {
		getLifeSpanHandler       uintptr
		getRenderHandler         uintptr
		onProcessMessageReceived uintptr
	}
)

func initClientCallbacks() {
	clientOnce.Do(func() {
		fns := &clientFns

		// cef_life_span_handler_t* get_life_span_handler(self)
		fns.getLifeSpanHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("Client.GetLifeSpanHandler", func() {
				if cb, ok := wrap.Recover[*ClientCallbacks](self); ok && cb.GetLifeSpanHandler != nil {
					ret = handOut(cb.GetLifeSpanHandler())
				}
			})
			return ret
		})

		// cef_render_handler_t* get_render_handler(self)
		fns.getRenderHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("Client.GetRenderHandler", func() {
				if cb, ok := wrap.Recover[*ClientCallbacks](self); ok && cb.GetRenderHandler != nil {
					ret = handOut(cb.GetRenderHandler())
				}
			})
			return ret
		})

		// int on_process_message_received(self, cef_browser_t* browser, cef_frame_t* frame,
		//     cef_process_id_t source_process, cef_process_message_t* message)
		fns.onProcessMessageReceived = purego.NewCallback(func(_ purego.CDecl, self, browser, frame unsafe.Pointer, source int32, message unsafe.Pointer) int32 {
			b := newBrowser(browser)
			f := adopt[capi.Opaque](frame)
			m := adopt[capi.Opaque](message)
			var ret int32
			dispatch("Client.OnProcessMessageReceived", func() {
				cb, ok := wrap.Recover[*ClientCallbacks](self)
				if !ok || cb.OnProcessMessageReceived == nil {
					return
				}
				ret = wrap.Bool(cb.OnProcessMessageReceived(b, f, ProcessID(source), m))
			}, b, f, m)
			return ret
		})
	})
}

// NewClient creates a cef_client_t backed by cb, for passing to browser
// creation. Only the non-nil fields of cb are installed.
func NewClient(cb *ClientCallbacks) *refcount.Ref[capi.Client] {
	if cb == nil {
		cb = &ClientCallbacks{}
	}
	initClientCallbacks()
	fns := &clientFns
	return wrap.New(cb, func(v *capi.Client) {
		if cb.GetLifeSpanHandler != nil {
			v.GetLifeSpanHandler = fns.getLifeSpanHandler
		}
		if cb.GetRenderHandler != nil {
			v.GetRenderHandler = fns.getRenderHandler
		}
		if cb.OnProcessMessageReceived != nil {
			v.OnProcessMessageReceived = fns.onProcessMessageReceived
		}
	})
}
