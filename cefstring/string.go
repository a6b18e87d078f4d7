//go:build !ios && !android && (amd64 || arm64)

// Package cefstring converts between Go strings and CEF's UTF-16 string
// record (cef_string_t) with explicit ownership.
//
// Exactly one side owns a record's buffer at any time. The owner frees it by
// calling the record's destructor, which Release does at most once.
// IntoRaw hands ownership to the caller (usually CEF) and leaves the source
// empty so it can never free the buffer a second time.
package cefstring

import (
	"fmt"
	"runtime"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/internal/bindings"
	"github.com/obinnaokechukwu/gocef/internal/handles"
)

// EncodingError reports that text could not be converted to UTF-16.
type EncodingError struct {
	Input  int    // length of the rejected input in bytes
	Reason string // which converter rejected it and why
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("cef: string encoding failed for %d-byte input: %s", e.Input, e.Reason)
}

// Function bindings, registered once libcef is loaded.
var (
	bindMu       sync.Mutex
	bindDone     bool
	utf8ToUTF16  func(src *byte, srcLen uintptr, output *capi.String) int32
	userfreeFree func(str *capi.String)
)

// native registers the libcef string functions on first use after load and
// reports whether the native converter is available.
func native() bool {
	bindMu.Lock()
	defer bindMu.Unlock()
	if bindDone {
		return utf8ToUTF16 != nil
	}
	if !bindings.IsLoaded() {
		return false
	}
	lib := bindings.Lib()
	bindings.RegisterOptional(&utf8ToUTF16, lib, "cef_string_utf8_to_utf16")
	bindings.RegisterOptional(&userfreeFree, lib, "cef_string_userfree_utf16_free")
	bindDone = true
	return utf8ToUTF16 != nil
}

// String owns a single cef_string_t buffer.
// The zero value is an empty string that owns nothing.
type String struct {
	raw capi.String
}

// New encodes s into a freshly allocated UTF-16 buffer.
func New(s string) (*String, error) {
	str := &String{}
	if err := Encode(s, &str.raw); err != nil {
		return nil, err
	}
	return str, nil
}

// Set frees the current buffer and replaces it with an encoding of v.
// On error the String is left empty.
func (s *String) Set(v string) error {
	Release(&s.raw)
	return Encode(v, &s.raw)
}

// Raw returns the record for passing as a const cef_string_t*.
// CEF copies from it; ownership stays with s.
func (s *String) Raw() *capi.String {
	if s == nil {
		return nil
	}
	return &s.raw
}

// IntoRaw transfers ownership of the buffer to the caller and empties s.
// The caller becomes responsible for calling Release on the result.
func (s *String) IntoRaw() capi.String {
	raw := s.raw
	s.raw = capi.String{}
	return raw
}

// String decodes the buffer without taking ownership.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return Decode(&s.raw)
}

// Len returns the length in UTF-16 code units.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return int(s.raw.Length)
}

// Free releases the buffer. Safe to call more than once.
func (s *String) Free() {
	if s == nil {
		return
	}
	Release(&s.raw)
}

// Encode converts s into out. out must be empty (zero or already released);
// an owned buffer in out would leak.
//
// Non-empty text goes through cef_string_utf8_to_utf16 when libcef is
// loaded. Otherwise, and always for "", the buffer is allocated on the Go
// heap with a Go destructor, so the result always owns its buffer and
// carries a destructor.
func Encode(s string, out *capi.String) error {
	if s != "" && native() {
		var ret capi.String
		if utf8ToUTF16(unsafe.StringData(s), uintptr(len(s)), &ret) == 0 {
			Release(&ret)
			return &EncodingError{Input: len(s), Reason: "cef_string_utf8_to_utf16 reported failure"}
		}
		*out = ret
		return nil
	}
	return hostEncode(s, out)
}

// Decode reads the UTF-16 buffer of p without taking ownership. Unpaired
// surrogates decode to U+FFFD. A nil or zero-length record yields "".
func Decode(p *capi.String) string {
	if p == nil || p.Str == nil || p.Length == 0 {
		return ""
	}
	return string(utf16.Decode(unsafe.Slice(p.Str, p.Length)))
}

// Release invokes p's destructor, if any, and then zeroes the record.
// Releasing an already zeroed record is a no-op.
func Release(p *capi.String) {
	if p == nil {
		return
	}
	if p.Dtor != 0 && p.Str != nil {
		callDtor(p.Dtor, p.Str)
	}
	*p = capi.String{}
}

// FromUserFree decodes a cef_string_userfree_t returned by a CEF getter
// and frees it. A nil pointer means CEF had no value and yields "".
func FromUserFree(p *capi.String) string {
	if p == nil {
		return ""
	}
	s := Decode(p)
	if native() && userfreeFree != nil {
		userfreeFree(p)
	}
	return s
}

// Empty returns a zero record, used where CEF accepts an optional string.
func Empty() capi.String {
	return capi.String{}
}

func callDtor(dtor uintptr, str *uint16) {
	if dtor == hostDtor() {
		freeHostBuffer(str)
		return
	}
	purego.SyscallN(dtor, uintptr(unsafe.Pointer(str)))
}

// Host-allocated buffers are []uint64 blocks: word 0 holds the registry ID,
// the UTF-16 text with a NUL terminator starts at word 1. The destructor only
// receives the text pointer, so it steps back one word to find the ID.
type hostBuffer struct {
	words []uint64
	pin   runtime.Pinner
}

var (
	buffers handles.Registry

	hostDtorOnce sync.Once
	hostDtorPtr  uintptr
)

// hostDtor returns the C-callable destructor for host-allocated buffers.
// Signature: void (*)(char16_t* str)
func hostDtor() uintptr {
	hostDtorOnce.Do(func() {
		hostDtorPtr = purego.NewCallback(func(_ purego.CDecl, str *uint16) {
			freeHostBuffer(str)
		})
	})
	return hostDtorPtr
}

func hostEncode(s string, out *capi.String) error {
	if !utf8.ValidString(s) {
		return &EncodingError{Input: len(s), Reason: "invalid UTF-8"}
	}

	units := utf16.Encode([]rune(s))
	n := len(units)

	// One header word plus n+1 code units, four per word.
	b := &hostBuffer{words: make([]uint64, 1+(n+4)/4)}
	b.words[0] = uint64(buffers.Register(b))
	b.pin.Pin(&b.words[0])

	text := unsafe.Slice((*uint16)(unsafe.Pointer(&b.words[1])), n+1)
	copy(text, units)
	text[n] = 0

	*out = capi.String{
		Str:    &text[0],
		Length: uintptr(n),
		Dtor:   hostDtor(),
	}
	return nil
}

func freeHostBuffer(str *uint16) {
	if str == nil {
		return
	}
	id := *(*uint64)(unsafe.Add(unsafe.Pointer(str), -8))
	b, ok := buffers.Lookup(uintptr(id)).(*hostBuffer)
	if !ok {
		return
	}
	if buffers.Unregister(uintptr(id)) {
		b.pin.Unpin()
	}
}
