//go:build !ios && !android && (amd64 || arm64)

// Package wrap turns Go callback implementations into CEF objects.
//
// New allocates a control block whose first field is the CEF vtable
// structure, so the address CEF passes back as "self" is also the address of
// the block. The block also holds the reference count and a back-reference
// to the Go implementation. Recover therefore maps a self pointer to its
// implementation with pointer arithmetic alone, and no process-wide lookup
// sits on the callback path.
//
// While CEF holds references the block is pinned and rooted in a registry.
// When the count reaches zero the block drops its implementation and unpins
// itself exactly once; host code never frees it explicitly.
package wrap

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/internal/handles"
	"github.com/obinnaokechukwu/gocef/refcount"
	"go.uber.org/zap"
)

// Disposer may be implemented by a wrapped implementation that wants to
// know when CEF has dropped its last reference. Dispose runs once, after
// the implementation can no longer be recovered.
type Disposer interface {
	Dispose()
}

type box struct {
	impl any
}

type control struct {
	refs atomic.Int64
	impl atomic.Pointer[box]
	id   uintptr
	pin  runtime.Pinner
}

// object is the control block. vtable must stay the first field.
type object[V any] struct {
	vtable V
	ctl    control
}

var live handles.Registry

// New wraps impl in a CEF object of vtable type V and returns the single
// initial reference.
//
// V must be a capi structure whose first field is capi.BaseRefCounted.
// New fills the header; build sets the method slots impl supports and
// leaves the others 0 so CEF applies its default behavior.
func New[V any](impl any, build func(v *V)) *refcount.Ref[V] {
	o := &object[V]{}
	if off, size := unsafe.Offsetof(o.ctl), unsafe.Sizeof(o.vtable); off != size {
		// Every CEF vtable is a run of pointer-sized fields, so this only
		// fires for a V that is not one.
		panic(fmt.Sprintf("wrap: %T is not a pointer-aligned vtable (size %d, control at %d)", o.vtable, size, off))
	}

	h := header()
	base := capi.BaseOf(&o.vtable)
	if build != nil {
		build(&o.vtable)
	}
	*base = capi.BaseRefCounted{
		Size:             unsafe.Sizeof(o.vtable),
		AddRef:           h.addRef,
		Release:          h.release,
		HasOneRef:        h.hasOneRef,
		HasAtLeastOneRef: h.hasAtLeastOneRef,
	}

	o.ctl.impl.Store(&box{impl: impl})
	o.ctl.refs.Store(1)
	o.ctl.id = live.Register(o)
	o.ctl.pin.Pin(o)

	return refcount.MustAdopt(&o.vtable)
}

// Recover returns the implementation behind a self pointer received in a
// trampoline. It returns false for a nil pointer, for an object that has
// already been freed, or if the implementation is not an I.
//
// self must point at an object created by New. CEF never calls a slot after
// dropping its last reference. Calling Recover on a freed block that the
// garbage collector has already reclaimed is undefined behavior.
func Recover[I any](self unsafe.Pointer) (I, bool) {
	var zero I
	if self == nil {
		return zero, false
	}
	b := controlOf(self).impl.Load()
	if b == nil {
		return zero, false
	}
	impl, ok := b.impl.(I)
	return impl, ok
}

// Live returns the number of wrapped objects CEF still holds references to.
func Live() int {
	return live.Count()
}

func controlOf(self unsafe.Pointer) *control {
	size := (*capi.BaseRefCounted)(self).Size
	return (*control)(unsafe.Add(self, size))
}

func (c *control) free() {
	b := c.impl.Swap(nil)
	if !live.Unregister(c.id) {
		return
	}
	c.pin.Unpin()
	if b == nil {
		return
	}
	if d, ok := b.impl.(Disposer); ok {
		Guard("Dispose", d.Dispose)
	}
}

type headerFuncs struct {
	addRef           uintptr
	release          uintptr
	hasOneRef        uintptr
	hasAtLeastOneRef uintptr
}

var (
	headerOnce sync.Once
	headerFns  headerFuncs
)

// header returns the shared cef_base_ref_counted_t trampolines. They are
// created once; purego callbacks are a limited resource.
func header() headerFuncs {
	headerOnce.Do(func() {
		// void add_ref(cef_base_ref_counted_t* self)
		headerFns.addRef = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			controlOf(self).refs.Add(1)
		})

		// int release(cef_base_ref_counted_t* self)
		headerFns.release = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			c := controlOf(self)
			switch n := c.refs.Add(-1); {
			case n == 0:
				c.free()
				return 1
			case n < 0:
				Logger().Error("cef: release on object with no references",
					zap.Uintptr("self", uintptr(self)), zap.Int64("count", n))
			}
			return 0
		})

		// int has_one_ref(cef_base_ref_counted_t* self)
		headerFns.hasOneRef = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			return Bool(controlOf(self).refs.Load() == 1)
		})

		// int has_at_least_one_ref(cef_base_ref_counted_t* self)
		headerFns.hasAtLeastOneRef = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			return Bool(controlOf(self).refs.Load() >= 1)
		})
	})
	return headerFns
}

// Bool converts a Go bool to a C int.
func Bool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
