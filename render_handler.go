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

// RenderHandlerCallbacks implements cef_render_handler_t for windowless
// rendering. Callbacks run on the browser process UI thread.
//
// Browsers, handles and slices passed to callbacks are only valid during
// the call. Slices point into native memory.
type RenderHandlerCallbacks struct {
	// GetAccessibilityHandler returns the handler for accessibility
	// notifications, or nil.
	GetAccessibilityHandler func() *Handle

	// GetRootScreenRect returns the root window rectangle in screen
	// coordinates. Return false to let CEF use the view rectangle.
	GetRootScreenRect func(browser *Browser) (Rect, bool)

	// GetViewRect returns the view rectangle in screen DIP coordinates
	// relative to the root window. It must be non-empty.
	GetViewRect func(browser *Browser) Rect

	// GetScreenPoint converts view coordinates to screen coordinates.
	GetScreenPoint func(browser *Browser, viewX, viewY int) (screenX, screenY int, ok bool)

	// GetScreenInfo fills info, which CEF has pre-populated. Return true
	// if info was changed.
	GetScreenInfo func(browser *Browser, info *ScreenInfo) bool

	// OnPopupShow is called when a popup widget is shown or hidden.
	OnPopupShow func(browser *Browser, show bool)

	// OnPopupSize gives the popup position and size in view coordinates.
	OnPopupSize func(browser *Browser, rect Rect)

	// OnPaint delivers a BGRA frame of width*height*4 bytes; dirty lists
	// the rectangles that changed.
	OnPaint func(browser *Browser, typ PaintElementType, dirty []Rect, buffer []byte, width, height int)

	// OnAcceleratedPaint delivers a shared texture. info is the native
	// cef_accelerated_paint_info_t.
	OnAcceleratedPaint func(browser *Browser, typ PaintElementType, dirty []Rect, info unsafe.Pointer)

	// GetTouchHandleSize returns the size of the touch handle for the
	// given orientation.
	GetTouchHandleSize func(browser *Browser, orientation HorizontalAlignment) Size

	// OnTouchHandleStateChanged is called when touch handle state changes.
	OnTouchHandleStateChanged func(browser *Browser, state TouchHandleState)

	// StartDragging starts a drag operation. Return false to abort it.
	// Return true and later call the host's DragSourceEndedAt and
	// DragSourceSystemDragEnded to complete it.
	StartDragging func(browser *Browser, dragData *Handle, allowed DragOperations, x, y int) bool

	// UpdateDragCursor is called when the web view wants the drag cursor
	// to reflect operation.
	UpdateDragCursor func(browser *Browser, operation DragOperations)

	// OnScrollOffsetChanged is called when the scroll offset changes.
	OnScrollOffsetChanged func(browser *Browser, x, y float64)

	// OnIMECompositionRangeChanged gives the range of composited characters
	// and their bounds in view coordinates.
	OnIMECompositionRangeChanged func(browser *Browser, selected Range, characterBounds []Rect)

	// OnTextSelectionChanged is called when the selected text changes.
	OnTextSelectionChanged func(browser *Browser, selectedText string, selected Range)

	// OnVirtualKeyboardRequested is called when an editable node gains or
	// loses focus. TextInputNone means the keyboard should be hidden.
	OnVirtualKeyboardRequested func(browser *Browser, mode TextInputMode)
}

var (
	renderHandlerOnce sync.Once
	renderHandlerFns  struct {
		getAccessibilityHandler      uintptr
		getRootScreenRect            uintptr
		getViewRect                  uintptr
		getScreenPoint               uintptr
		getScreenInfo                uintptr
		onPopupShow                  uintptr
		onPopupSize                  uintptr
		onPaint                      uintptr
		onAcceleratedPaint           uintptr
		getTouchHandleSize           uintptr
		onTouchHandleStateChanged    uintptr
		startDragging                uintptr
		updateDragCursor             uintptr
		onScrollOffsetChanged        uintptr
		onIMECompositionRangeChanged uintptr
		onTextSelectionChanged       uintptr
		onVirtualKeyboardRequested   uintptr
	}
)

func renderHandler(self unsafe.Pointer) (*RenderHandlerCallbacks, bool) {
	return wrap.Recover[*RenderHandlerCallbacks](self)
}

func initRenderHandlerCallbacks() {
	renderHandlerOnce.Do(func() {
		fns := &renderHandlerFns

		// cef_accessibility_handler_t* get_accessibility_handler(self)
		fns.getAccessibilityHandler = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			var ret uintptr
			dispatch("RenderHandler.GetAccessibilityHandler", func() {
				if cb, ok := renderHandler(self); ok && cb.GetAccessibilityHandler != nil {
					ret = handOut(cb.GetAccessibilityHandler())
				}
			})
			return ret
		})

		// int get_root_screen_rect(self, cef_browser_t* browser, cef_rect_t* rect)
		fns.getRootScreenRect = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, rect *capi.Rect) int32 {
			b := newBrowser(browser)
			var ret int32
			dispatch("RenderHandler.GetRootScreenRect", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.GetRootScreenRect == nil {
					return
				}
				r, handled := cb.GetRootScreenRect(b)
				if handled && rect != nil {
					*rect = r
					ret = 1
				}
			}, b)
			return ret
		})

		// void get_view_rect(self, cef_browser_t* browser, cef_rect_t* rect)
		fns.getViewRect = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, rect *capi.Rect) {
			b := newBrowser(browser)
			dispatch("RenderHandler.GetViewRect", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.GetViewRect == nil {
					return
				}
				r := cb.GetViewRect(b)
				if rect != nil {
					*rect = r
				}
			}, b)
		})

		// int get_screen_point(self, cef_browser_t* browser, int viewX, int viewY,
		//     int* screenX, int* screenY)
		fns.getScreenPoint = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, viewX, viewY int32, screenX, screenY *int32) int32 {
			b := newBrowser(browser)
			var ret int32
			dispatch("RenderHandler.GetScreenPoint", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.GetScreenPoint == nil {
					return
				}
				x, y, handled := cb.GetScreenPoint(b, int(viewX), int(viewY))
				if handled && screenX != nil && screenY != nil {
					*screenX, *screenY = int32(x), int32(y)
					ret = 1
				}
			}, b)
			return ret
		})

		// int get_screen_info(self, cef_browser_t* browser, cef_screen_info_t* screen_info)
		fns.getScreenInfo = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, info *capi.ScreenInfo) int32 {
			b := newBrowser(browser)
			var ret int32
			dispatch("RenderHandler.GetScreenInfo", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.GetScreenInfo == nil || info == nil {
					return
				}
				// info is only written back when the callback succeeds.
				si := *info
				if cb.GetScreenInfo(b, &si) {
					*info = si
					ret = 1
				}
			}, b)
			return ret
		})

		// void on_popup_show(self, cef_browser_t* browser, int show)
		fns.onPopupShow = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, show int32) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnPopupShow", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnPopupShow == nil {
					return
				}
				cb.OnPopupShow(b, show != 0)
			}, b)
		})

		// void on_popup_size(self, cef_browser_t* browser, const cef_rect_t* rect)
		fns.onPopupSize = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, rect *capi.Rect) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnPopupSize", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnPopupSize == nil || rect == nil {
					return
				}
				cb.OnPopupSize(b, *rect)
			}, b)
		})

		// void on_paint(self, cef_browser_t* browser, cef_paint_element_type_t type,
		//     size_t dirtyRectsCount, const cef_rect_t* dirtyRects,
		//     const void* buffer, int width, int height)
		fns.onPaint = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, typ int32, dirtyCount uintptr, dirtyRects *capi.Rect, buffer *byte, width, height int32) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnPaint", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnPaint == nil {
					return
				}
				var pixels []byte
				if buffer != nil && width > 0 && height > 0 {
					pixels = unsafe.Slice(buffer, int(width)*int(height)*4)
				}
				cb.OnPaint(b, PaintElementType(typ), rects(dirtyRects, dirtyCount), pixels, int(width), int(height))
			}, b)
		})

		// void on_accelerated_paint(self, cef_browser_t* browser, cef_paint_element_type_t type,
		//     size_t dirtyRectsCount, const cef_rect_t* dirtyRects,
		//     const cef_accelerated_paint_info_t* info)
		fns.onAcceleratedPaint = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, typ int32, dirtyCount uintptr, dirtyRects *capi.Rect, info unsafe.Pointer) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnAcceleratedPaint", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnAcceleratedPaint == nil {
					return
				}
				cb.OnAcceleratedPaint(b, PaintElementType(typ), rects(dirtyRects, dirtyCount), info)
			}, b)
		})

		// void get_touch_handle_size(self, cef_browser_t* browser,
		//     cef_horizontal_alignment_t orientation, cef_size_t* size)
		fns.getTouchHandleSize = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, orientation int32, size *capi.Size) {
			b := newBrowser(browser)
			dispatch("RenderHandler.GetTouchHandleSize", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.GetTouchHandleSize == nil {
					return
				}
				s := cb.GetTouchHandleSize(b, HorizontalAlignment(orientation))
				if size != nil {
					*size = s
				}
			}, b)
		})

		// void on_touch_handle_state_changed(self, cef_browser_t* browser,
		//     const cef_touch_handle_state_t* state)
		fns.onTouchHandleStateChanged = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, state *capi.TouchHandleState) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnTouchHandleStateChanged", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnTouchHandleStateChanged == nil || state == nil {
					return
				}
				cb.OnTouchHandleStateChanged(b, *state)
			}, b)
		})

		// int start_dragging(self, cef_browser_t* browser, cef_drag_data_t* drag_data,
		//     cef_drag_operations_mask_t allowed_ops, int x, int y)
		fns.startDragging = purego.NewCallback(func(_ purego.CDecl, self, browser, dragData unsafe.Pointer, allowed uint32, x, y int32) int32 {
			b := newBrowser(browser)
			d := adopt[capi.Opaque](dragData)
			var ret int32
			dispatch("RenderHandler.StartDragging", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.StartDragging == nil {
					return
				}
				ret = wrap.Bool(cb.StartDragging(b, d, DragOperations(allowed), int(x), int(y)))
			}, b, d)
			return ret
		})

		// void update_drag_cursor(self, cef_browser_t* browser, cef_drag_operations_mask_t operation)
		fns.updateDragCursor = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, operation uint32) {
			b := newBrowser(browser)
			dispatch("RenderHandler.UpdateDragCursor", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.UpdateDragCursor == nil {
					return
				}
				cb.UpdateDragCursor(b, DragOperations(operation))
			}, b)
		})

		// void on_scroll_offset_changed(self, cef_browser_t* browser, double x, double y)
		fns.onScrollOffsetChanged = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, x, y float64) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnScrollOffsetChanged", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnScrollOffsetChanged == nil {
					return
				}
				cb.OnScrollOffsetChanged(b, x, y)
			}, b)
		})

		// void on_ime_composition_range_changed(self, cef_browser_t* browser,
		//     const cef_range_t* selected_range, size_t character_boundsCount,
		//     const cef_rect_t* character_bounds)
		fns.onIMECompositionRangeChanged = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, selected *capi.Range, boundsCount uintptr, bounds *capi.Rect) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnIMECompositionRangeChanged", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnIMECompositionRangeChanged == nil {
					return
				}
				var r Range
				if selected != nil {
					r = *selected
				}
				cb.OnIMECompositionRangeChanged(b, r, rects(bounds, boundsCount))
			}, b)
		})

		// void on_text_selection_changed(self, cef_browser_t* browser,
		//     const cef_string_t* selected_text, const cef_range_t* selected_range)
		fns.onTextSelectionChanged = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, text *capi.String, selected *capi.Range) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnTextSelectionChanged", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnTextSelectionChanged == nil {
					return
				}
				var r Range
				if selected != nil {
					r = *selected
				}
				cb.OnTextSelectionChanged(b, cefstring.Decode(text), r)
			}, b)
		})

		// void on_virtual_keyboard_requested(self, cef_browser_t* browser,
		//     cef_text_input_mode_t input_mode)
		fns.onVirtualKeyboardRequested = purego.NewCallback(func(_ purego.CDecl, self, browser unsafe.Pointer, mode int32) {
			b := newBrowser(browser)
			dispatch("RenderHandler.OnVirtualKeyboardRequested", func() {
				cb, ok := renderHandler(self)
				if !ok || cb.OnVirtualKeyboardRequested == nil {
					return
				}
				cb.OnVirtualKeyboardRequested(b, TextInputMode(mode))
			}, b)
		})
	})
}

// NewRenderHandler creates a cef_render_handler_t backed by cb. Only the
// non-nil fields of cb are installed. CEF requires GetViewRect for
// windowless browsers.
func NewRenderHandler(cb *RenderHandlerCallbacks) *refcount.Ref[capi.RenderHandler] {
	if cb == nil {
		cb = &RenderHandlerCallbacks{}
	}
	initRenderHandlerCallbacks()
	fns := &renderHandlerFns
	return wrap.New(cb, func(v *capi.RenderHandler) {
		set := func(slot *uintptr, fn uintptr, present bool) {
			if present {
				*slot = fn
			}
		}
		set(&v.GetAccessibilityHandler, fns.getAccessibilityHandler, cb.GetAccessibilityHandler != nil)
		set(&v.GetRootScreenRect, fns.getRootScreenRect, cb.GetRootScreenRect != nil)
		set(&v.GetViewRect, fns.getViewRect, cb.GetViewRect != nil)
		set(&v.GetScreenPoint, fns.getScreenPoint, cb.GetScreenPoint != nil)
		set(&v.GetScreenInfo, fns.getScreenInfo, cb.GetScreenInfo != nil)
		set(&v.OnPopupShow, fns.onPopupShow, cb.OnPopupShow != nil)
		set(&v.OnPopupSize, fns.onPopupSize, cb.OnPopupSize != nil)
		set(&v.OnPaint, fns.onPaint, cb.OnPaint != nil)
		set(&v.OnAcceleratedPaint, fns.onAcceleratedPaint, cb.OnAcceleratedPaint != nil)
		set(&v.GetTouchHandleSize, fns.getTouchHandleSize, cb.GetTouchHandleSize != nil)
		set(&v.OnTouchHandleStateChanged, fns.onTouchHandleStateChanged, cb.OnTouchHandleStateChanged != nil)
		set(&v.StartDragging, fns.startDragging, cb.StartDragging != nil)
		set(&v.UpdateDragCursor, fns.updateDragCursor, cb.UpdateDragCursor != nil)
		set(&v.OnScrollOffsetChanged, fns.onScrollOffsetChanged, cb.OnScrollOffsetChanged != nil)
		set(&v.OnIMECompositionRangeChanged, fns.onIMECompositionRangeChanged, cb.OnIMECompositionRangeChanged != nil)
		set(&v.OnTextSelectionChanged, fns.onTextSelectionChanged, cb.OnTextSelectionChanged != nil)
		set(&v.OnVirtualKeyboardRequested, fns.onVirtualKeyboardRequested, cb.OnVirtualKeyboardRequested != nil)
	})
}
