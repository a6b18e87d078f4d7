//go:build !ios && !android && (amd64 || arm64)

// Package refcount provides Ref, a shared-ownership handle over CEF objects
// that begin with cef_base_ref_counted_t.
//
// The native object's own counter is the single source of truth. Each Ref
// holds exactly one reference: constructing a Ref takes or adds one, and
// Release gives it back once. Application code never calls add_ref or
// release directly.
package refcount

import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
)

// ErrNullHandle is returned when a native pointer that should name an
// object is NULL. Callers treat it as "no object".
var ErrNullHandle = errors.New("cef: null handle")

// Ref owns one reference to a native object of type T. T must be a capi
// structure whose first field is capi.BaseRefCounted.
//
// A Ref is safe for concurrent use. If a Ref becomes unreachable without
// Release or IntoRaw, a finalizer releases its reference.
type Ref[T any] struct {
	ptr atomic.Pointer[T]
}

// Adopt takes ownership of p, which already carries one reference for the
// caller (a pointer returned by a CEF factory or getter, or passed into a
// callback). It does not call add_ref.
func Adopt[T any](p *T) (*Ref[T], error) {
	if p == nil {
		return nil, ErrNullHandle
	}
	return newRef(p), nil
}

// Borrow wraps p, which the caller does not own, by calling add_ref so
// that the new Ref holds its own reference.
func Borrow[T any](p *T) (*Ref[T], error) {
	if p == nil {
		return nil, ErrNullHandle
	}
	addRef(capi.BaseOf(p))
	return newRef(p), nil
}

// MustAdopt is Adopt for pointers that CEF documents as never NULL.
func MustAdopt[T any](p *T) *Ref[T] {
	r, err := Adopt(p)
	if err != nil {
		panic(err)
	}
	return r
}

func newRef[T any](p *T) *Ref[T] {
	r := &Ref[T]{}
	r.ptr.Store(p)
	runtime.SetFinalizer(r, (*Ref[T]).Release)
	return r
}

// Clone adds a reference and returns a new Ref to the same object.
// Cloning a released Ref returns nil.
func (r *Ref[T]) Clone() *Ref[T] {
	p := r.Ptr()
	if p == nil {
		return nil
	}
	addRef(capi.BaseOf(p))
	return newRef(p)
}

// Release gives back this Ref's reference. It reports true if that was the
// last reference, in which case CEF (or the wrap package, for host-implemented
// objects) frees the object. Only the first call has an effect.
func (r *Ref[T]) Release() bool {
	if r == nil {
		return false
	}
	p := r.ptr.Swap(nil)
	if p == nil {
		return false
	}
	runtime.SetFinalizer(r, nil)
	return release(capi.BaseOf(p))
}

// Ptr returns the raw pointer for passing into CEF calls that do not take
// a reference. It returns nil after Release or IntoRaw.
func (r *Ref[T]) Ptr() *T {
	if r == nil {
		return nil
	}
	return r.ptr.Load()
}

// IntoRaw transfers this Ref's reference to the caller, typically because
// a CEF function or callback return value takes ownership of it. The Ref
// becomes empty and will not release.
func (r *Ref[T]) IntoRaw() *T {
	if r == nil {
		return nil
	}
	p := r.ptr.Swap(nil)
	if p != nil {
		runtime.SetFinalizer(r, nil)
	}
	return p
}

// Valid reports whether the Ref still holds a reference.
func (r *Ref[T]) Valid() bool {
	return r.Ptr() != nil
}

// HasOneRef reports whether the object's count is exactly one.
func (r *Ref[T]) HasOneRef() bool {
	p := r.Ptr()
	if p == nil {
		return false
	}
	base := capi.BaseOf(p)
	return call(base.HasOneRef, base) != 0
}

// HasAtLeastOneRef reports whether the object's count is at least one.
func (r *Ref[T]) HasAtLeastOneRef() bool {
	p := r.Ptr()
	if p == nil {
		return false
	}
	base := capi.BaseOf(p)
	return call(base.HasAtLeastOneRef, base) != 0
}

// RawOf returns the pointer held by an optional Ref as the uintptr CEF
// expects for a nullable argument: 0 for nil.
func RawOf[T any](r *Ref[T]) uintptr {
	return uintptr(unsafe.Pointer(r.Ptr()))
}

func addRef(base *capi.BaseRefCounted) {
	call(base.AddRef, base)
}

func release(base *capi.BaseRefCounted) bool {
	return call(base.Release, base) != 0
}

// call invokes a header slot. A NULL slot is treated as a no-op returning 0.
func call(fn uintptr, base *capi.BaseRefCounted) uintptr {
	if fn == 0 {
		return 0
	}
	r1, _, _ := purego.SyscallN(fn, uintptr(unsafe.Pointer(base)))
	// int results come back in the low 32 bits; the rest of the register is
	// unspecified.
	return uintptr(uint32(r1))
}
