//go:build !ios && !android && (amd64 || arm64)

// Package capi declares byte-exact Go mirrors of the CEF C API structures.
//
// Layouts follow the CEF 120 headers in include/capi. Every ref-counted
// structure embeds BaseRefCounted as its first field so that a pointer to
// the structure is also a valid *BaseRefCounted. Function-pointer slots are
// plain uintptr values; 0 is C NULL and tells CEF to use its default
// behavior.
//
// This package only describes memory. Calling slots, counting references and
// converting strings live in the refcount, wrap and cefstring packages.
package capi

import "unsafe"

// BaseRefCounted mirrors cef_base_ref_counted_t.
//
//	typedef struct _cef_base_ref_counted_t {
//	  size_t size;
//	  void(CEF_CALLBACK* add_ref)(struct _cef_base_ref_counted_t* self);
//	  int(CEF_CALLBACK* release)(struct _cef_base_ref_counted_t* self);
//	  int(CEF_CALLBACK* has_one_ref)(struct _cef_base_ref_counted_t* self);
//	  int(CEF_CALLBACK* has_at_least_one_ref)(struct _cef_base_ref_counted_t* self);
//	} cef_base_ref_counted_t;
type BaseRefCounted struct {
	Size             uintptr
	AddRef           uintptr
	Release          uintptr
	HasOneRef        uintptr
	HasAtLeastOneRef uintptr
}

// BaseOf reinterprets a pointer to any ref-counted structure as its header.
// p must point at a structure whose first field is BaseRefCounted.
func BaseOf[T any](p *T) *BaseRefCounted {
	return (*BaseRefCounted)(unsafe.Pointer(p))
}
