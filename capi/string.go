//go:build !ios && !android && (amd64 || arm64)

package capi

// String mirrors cef_string_utf16_t, the type behind cef_string_t.
//
//	typedef struct _cef_string_utf16_t {
//	  char16_t* str;
//	  size_t length;
//	  void (*dtor)(char16_t* str);
//	} cef_string_utf16_t;
//
// Length counts UTF-16 code units, not bytes. Dtor is supplied by whichever
// side allocated Str and must be called exactly once.
type String struct {
	Str    *uint16
	Length uintptr
	Dtor   uintptr
}
