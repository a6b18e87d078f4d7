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

// Popup describes a popup a page is about to open.
type Popup struct {
	TargetURL       string
	TargetFrameName string
	Disposition     WindowOpenDisposition
	UserGesture     bool

	// NoJavaScriptAccess is written back to CEF. Set it to keep the
	// opener from scripting the popup.
	NoJavaScriptAccess bool
}

// LifeSpanHandlerCallbacks implements cef_life_span_handler_t. Callbacks
// run on the browser process UI thread unless noted.
//
// The browser and frame arguments are borrowed for the duration of the
// call. Clone a browser to keep it, for example from OnAfterCreated.
type LifeSpanHandlerCallbacks struct {
	// OnBeforePopup is called on the IO thread before a popup browser is
	// created. Return true to cancel the popup.
	OnBeforePopup func(browser *Browser, frame *Handle, popup *Popup) bool

	// OnAfterCreated is called after a new browser is created.
	OnAfterCreated func(browser *Browser)

	// DoClose is called when a browser has received a close request.
	// Return false to let the close proceed.
	DoClose func(browser *Browser) bool

	// OnBeforeClose is called just before a browser is destroyed. Release
	// any clones of the browser kept from earlier callbacks here.
	OnBeforeClose func(browser *Browser)
}

var (
	lifeSpanHandlerOnce sync.Once
	lifeSpanHandlerFns  struct {
		onBeforePopup  uintptr
		onAfterCreated uintptr
		doClose        uintptr
		onBeforeClose  uintptr
	}
)

func initLifeSpanHandlerCallbacks() {
	lifeSpanHandlerOnce.Do(func() {
		fns := &lifeSpanHandlerFns

		// int on_before_popup(self, cef_browser_t* browser, cef_frame_t* frame,
		//     const cef_string_t* target_url, const cef_string_t* target_frame_name,
		//     cef_window_open_disposition_t target_disposition, int user_gesture,
		//     const cef_popup_features_t* popupFeatures, cef_window_info_t* windowInfo,
		//     cef_client_t** client, cef_browser_settings_t* settings,
		//     cef_dictionary_value_t** extra_info, int* no_javascript_access)
		fns.onBeforePopup = purego.NewCallback(func(_ purego.CDecl, self, browser, frame unsafe.Pointer,
			targetURL, targetFrameName *capi.String, disposition, userGesture int32,
			_, _, _, _, _ unsafe.Pointer, noJavaScriptAccess *int32) int32 {
			b := newBrowser(browser)
			f := adopt[capi.Opaque](frame)
			var ret int32
			dispatch("LifeSpanHandler.OnBeforePopup", func() {
				cb, ok := wrap.Recover[*LifeSpanHandlerCallbacks](self)
				if !ok || cb.OnBeforePopup == nil {
					return
				}
				popup := &Popup{
					TargetURL:       cefstring.Decode(targetURL),
					TargetFrameName: cefstring.Decode(targetFrameName),
					Disposition:     WindowOpenDisposition(disposition),
					UserGesture:     userGesture != 0,
				}
				if noJavaScriptAccess != nil {
					popup.NoJavaScriptAccess = *noJavaScriptAccess != 0
				}
				cancel := cb.OnBeforePopup(b, f, popup)
				if noJavaScriptAccess != nil {
					*noJavaScriptAccess = wrap.Bool(popup.NoJavaScriptAccess)
				}
				ret = wrap.Bool(cancel)
			}, b, f)
			return ret
		})

		// void on_after_created(self, cef_browser_t* browser)
		fns.onAfterCreated = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer) {
			b := newBrowser(browser)
			dispatch("LifeSpanHandler.OnAfterCreated", func() {
				cb, ok := wrap.Recover[*LifeSpanHandlerCallbacks](self)
				if !ok || cb.OnAfterCreated == nil {
					return
				}
				cb.OnAfterCreated(b)
			}, b)
		})

		// int do_close(self, cef_browser_t* browser)
		fns.doClose = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer) int32 {
			b := newBrowser(browser)
			var ret int32
			dispatch("LifeSpanHandler.DoClose", func() {
				cb, ok := wrap.Recover[*LifeSpanHandlerCallbacks](self)
				if !ok || cb.DoClose == nil {
					return
				}
				ret = wrap.Bool(cb.DoClose(b))
			}, b)
			return ret
		})

		// void on_before_close(self, cef_browser_t* browser)
		fns.onBeforeClose = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer) {
			b := newBrowser(browser)
			dispatch("LifeSpanHandler.OnBeforeClose", func() {
				cb, ok := wrap.Recover[*LifeSpanHandlerCallbacks](self)
				if !ok || cb.OnBeforeClose == nil {
					return
				}
				cb.OnBeforeClose(b)
			}, b)
		})
	})
}

// NewLifeSpanHandler creates a cef_life_span_handler_t backed by cb. Only
// the non-nil fields of cb are installed.
func NewLifeSpanHandler(cb *LifeSpanHandlerCallbacks) *refcount.Ref[capi.LifeSpanHandler] {
	if cb == nil {
		cb = &LifeSpanHandlerCallbacks{}
	}
	initLifeSpanHandlerCallbacks()
	fns := &lifeSpanHandlerFns
	return wrap.New(cb, func(v *capi.LifeSpanHandler) {
		if cb.OnBeforePopup != nil {
			v.OnBeforePopup = fns.onBeforePopup
		}
		if cb.OnAfterCreated != nil {
			v.OnAfterCreated = fns.onAfterCreated
		}
		if cb.DoClose != nil {
			v.DoClose = fns.doClose
		}
		if cb.OnBeforeClose != nil {
			v.OnBeforeClose = fns.onBeforeClose
		}
	})
}
