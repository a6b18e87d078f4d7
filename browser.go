//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"unsafe"

	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// Browser is a reference to a cef_browser_t.
//
// A Browser passed into a callback is only valid until the callback
// returns. Call Clone to keep it longer, and Release the clone when done.
type Browser struct {
	ref *refcount.Ref[capi.Browser]
}

func newBrowser(p unsafe.Pointer) *Browser {
	ref := adopt[capi.Browser](p)
	if ref == nil {
		return nil
	}
	return &Browser{ref: ref}
}

// BrowserFromRef wraps an existing reference. The Browser takes ownership
// of ref.
func BrowserFromRef(ref *refcount.Ref[capi.Browser]) *Browser {
	if ref == nil {
		return nil
	}
	return &Browser{ref: ref}
}

// Ref returns the underlying reference.
func (b *Browser) Ref() *refcount.Ref[capi.Browser] {
	if b == nil {
		return nil
	}
	return b.ref
}

// Clone returns a new reference to the same browser, or nil if b has been
// released.
func (b *Browser) Clone() *Browser {
	if b == nil {
		return nil
	}
	return BrowserFromRef(b.ref.Clone())
}

// Release drops this reference. It is safe to call more than once.
func (b *Browser) Release() bool {
	if b == nil {
		return false
	}
	return b.ref.Release()
}

// IsValid returns true if the native browser is still valid.
func (b *Browser) IsValid() bool {
	v, p := deref(b.Ref())
	if v == nil {
		return false
	}
	return callInt(v.IsValid, p) != 0
}

// Identifier returns the globally unique browser identifier, or 0 if the
// Browser has been released.
func (b *Browser) Identifier() int {
	v, p := deref(b.Ref())
	if v == nil {
		return 0
	}
	return int(callInt(v.GetIdentifier, p))
}

// IsSame returns true if b and other refer to the same browser.
func (b *Browser) IsSame(other *Browser) bool {
	v, p := deref(b.Ref())
	if v == nil || other == nil || v.IsSame == 0 {
		return false
	}
	that := other.ref.Clone()
	if that == nil {
		return false
	}
	// is_same takes ownership of the argument reference.
	return callInt(v.IsSame, p, uintptr(unsafe.Pointer(that.IntoRaw()))) != 0
}

// Host returns the browser host, or nil if none is available. Host
// methods may only be called in the browser process.
func (b *Browser) Host() *BrowserHost {
	v, _ := deref(b.Ref())
	if v == nil {
		return nil
	}
	ref := adopt[capi.BrowserHost](callPtr(v.GetHost, unsafe.Pointer(v)))
	if ref == nil {
		return nil
	}
	return &BrowserHost{ref: ref}
}

// BrowserHost is a reference to a cef_browser_host_t.
type BrowserHost struct {
	ref *refcount.Ref[capi.BrowserHost]
}

// Ref returns the underlying reference.
func (h *BrowserHost) Ref() *refcount.Ref[capi.BrowserHost] {
	if h == nil {
		return nil
	}
	return h.ref
}

// Clone returns a new reference to the same host, or nil if h has been
// released.
func (h *BrowserHost) Clone() *BrowserHost {
	if h == nil {
		return nil
	}
	ref := h.ref.Clone()
	if ref == nil {
		return nil
	}
	return &BrowserHost{ref: ref}
}

// Release drops this reference.
func (h *BrowserHost) Release() bool {
	if h == nil {
		return false
	}
	return h.ref.Release()
}

// CloseBrowser requests that the browser close. With force false the
// page's unload handlers may cancel the close.
func (h *BrowserHost) CloseBrowser(force bool) error {
	v, p := deref(h.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.CloseBrowser, p, uintptr(wrap.Bool(force)))
	return nil
}

// WasResized tells CEF the view size changed. CEF calls
// RenderHandler.GetViewRect afterwards. Windowless rendering only.
func (h *BrowserHost) WasResized() error {
	v, p := deref(h.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.WasResized, p)
	return nil
}

// WasHidden tells CEF the browser was hidden or shown. Windowless
// rendering only.
func (h *BrowserHost) WasHidden(hidden bool) error {
	v, p := deref(h.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.WasHidden, p, uintptr(wrap.Bool(hidden)))
	return nil
}

// NotifyScreenInfoChanged tells CEF the screen information changed, for
// example after a move between displays. CEF calls
// RenderHandler.GetScreenInfo afterwards.
func (h *BrowserHost) NotifyScreenInfoChanged() error {
	v, p := deref(h.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.NotifyScreenInfoChanged, p)
	return nil
}

// Invalidate requests a repaint of the given element. Windowless
// rendering only.
func (h *BrowserHost) Invalidate(typ PaintElementType) error {
	v, p := deref(h.Ref())
	if v == nil {
		return ErrClosed
	}
	call(v.Invalidate, p, uintptr(typ))
	return nil
}
