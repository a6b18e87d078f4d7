//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"unsafe"

	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
)

// CommandLine is a reference to a cef_command_line_t. Command lines handed
// to App and BrowserProcessHandler callbacks are borrowed, and writable,
// only until the callback returns.
type CommandLine struct {
	ref *refcount.Ref[capi.CommandLine]
}

func newCommandLine(p unsafe.Pointer) *CommandLine {
	ref := adopt[capi.CommandLine](p)
	if ref == nil {
		return nil
	}
	return &CommandLine{ref: ref}
}

// Ref returns the underlying reference.
func (c *CommandLine) Ref() *refcount.Ref[capi.CommandLine] {
	if c == nil {
		return nil
	}
	return c.ref
}

// Clone returns a new reference to the same command line, or nil if c
// has been released.
func (c *CommandLine) Clone() *CommandLine {
	if c == nil {
		return nil
	}
	ref := c.ref.Clone()
	if ref == nil {
		return nil
	}
	return &CommandLine{ref: ref}
}

// Release drops this reference.
func (c *CommandLine) Release() bool {
	if c == nil {
		return false
	}
	return c.ref.Release()
}

// IsReadOnly returns true if the values of this object are read-only.
func (c *CommandLine) IsReadOnly() bool {
	v, p := deref(c.Ref())
	if v == nil {
		return true
	}
	return callInt(v.IsReadOnly, p) != 0
}

// HasSwitch returns true if the command line contains the given switch.
func (c *CommandLine) HasSwitch(name string) bool {
	v, p := deref(c.Ref())
	if v == nil || v.HasSwitch == 0 {
		return false
	}
	var has bool
	err := withString(name, func(s uintptr) {
		has = callInt(v.HasSwitch, p, s) != 0
	})
	return err == nil && has
}

// SwitchValue returns the value of the given switch. It returns "" if the
// switch is absent, has no value, or name is not valid UTF-8.
func (c *CommandLine) SwitchValue(name string) string {
	v, _ := deref(c.Ref())
	if v == nil || v.GetSwitchValue == 0 {
		return ""
	}
	n, err := cefstring.New(name)
	if err != nil {
		return ""
	}
	defer n.Free()

	get := bindSlot[func(self unsafe.Pointer, name *capi.String) *capi.String](v.GetSwitchValue)
	return cefstring.FromUserFree(get(unsafe.Pointer(v), n.Raw()))
}

// AppendSwitch adds a switch to the end of the command line.
func (c *CommandLine) AppendSwitch(name string) error {
	v, p := deref(c.Ref())
	if v == nil {
		return ErrClosed
	}
	return withString(name, func(s uintptr) {
		call(v.AppendSwitch, p, s)
	})
}

// AppendSwitchWithValue adds a switch with the given value to the end of
// the command line.
func (c *CommandLine) AppendSwitchWithValue(name, value string) error {
	v, p := deref(c.Ref())
	if v == nil {
		return ErrClosed
	}
	n, err := cefstring.New(name)
	if err != nil {
		return err
	}
	defer n.Free()
	val, err := cefstring.New(value)
	if err != nil {
		return err
	}
	defer val.Free()

	call(v.AppendSwitchWithValue, p, uintptr(unsafe.Pointer(n.Raw())), uintptr(unsafe.Pointer(val.Raw())))
	return nil
}
