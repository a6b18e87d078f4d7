//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// Handle is a reference to a CEF object this package passes along without
// calling into, such as a frame, request, response or process message.
type Handle = refcount.Ref[capi.Opaque]

// adopt takes ownership of a reference CEF handed over. nil stays nil.
func adopt[T any](p unsafe.Pointer) *refcount.Ref[T] {
	if p == nil {
		return nil
	}
	return refcount.MustAdopt((*T)(p))
}

// handOut returns a new reference for CEF to own. The caller keeps r.
func handOut[T any](r *refcount.Ref[T]) uintptr {
	return uintptr(unsafe.Pointer(r.Clone().IntoRaw()))
}

// releaser is implemented by every handle a trampoline adopts from its
// arguments.
type releaser interface {
	Release() bool
}

// dispatch runs a trampoline body under wrap.Guard, then releases the
// references adopted from the trampoline's arguments. Callbacks only
// borrow them for the duration of the call and Clone what they keep.
func dispatch(name string, fn func(), borrowed ...releaser) {
	wrap.Guard(name, fn)
	for _, r := range borrowed {
		r.Release()
	}
}

// call invokes a native slot. It returns 0 without calling when the slot
// is NULL.
func call(fn uintptr, args ...uintptr) uintptr {
	if fn == 0 {
		return 0
	}
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

// callInt is call for slots returning a C int.
func callInt(fn uintptr, args ...uintptr) int32 {
	return int32(uint32(call(fn, args...)))
}

// slots caches the typed functions bound to native slot addresses.
var slots sync.Map // slotKey -> F

type slotKey struct {
	fn  uintptr
	typ reflect.Type
}

// bindSlot returns the native slot fn bound as a Go function of type F.
// Slots that return pointers are called through it.
func bindSlot[F any](fn uintptr) F {
	key := slotKey{fn: fn, typ: reflect.TypeOf((*F)(nil)).Elem()}
	if f, ok := slots.Load(key); ok {
		return f.(F)
	}
	var f F
	purego.RegisterFunc(&f, fn)
	actual, _ := slots.LoadOrStore(key, f)
	return actual.(F)
}

// callPtr invokes a native getter slot returning an object pointer. It
// returns nil without calling when the slot is NULL.
func callPtr(fn uintptr, self unsafe.Pointer) unsafe.Pointer {
	if fn == 0 {
		return nil
	}
	return bindSlot[func(self unsafe.Pointer) unsafe.Pointer](fn)(self)
}

// deref returns the structure behind r and its address as a slot argument.
// Both are zero once r is released.
func deref[T any](r *refcount.Ref[T]) (*T, uintptr) {
	p := r.Ptr()
	return p, uintptr(unsafe.Pointer(p))
}

// withString encodes s for the duration of fn, which receives a
// const cef_string_t* argument.
func withString(s string, fn func(p uintptr)) error {
	str, err := cefstring.New(s)
	if err != nil {
		return err
	}
	defer str.Free()
	fn(uintptr(unsafe.Pointer(str.Raw())))
	return nil
}

func rects(p *capi.Rect, n uintptr) []Rect {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(p, n)
}
