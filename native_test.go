//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
	"github.com/obinnaokechukwu/gocef/cefstring"
	"github.com/obinnaokechukwu/gocef/refcount"
	"github.com/obinnaokechukwu/gocef/wrap"
)

// The fakes below stand in for objects CEF implements. They are built with
// wrap.New, so their reference counts behave like CEF's and wrap.Live
// reports any reference a trampoline leaks.

// skipIfNoCEF skips tests that need a real libcef.
func skipIfNoCEF(t *testing.T) {
	t.Helper()
	if err := Load(); err != nil {
		t.Skipf("libcef not available: %v", err)
	}
}

// checkLive fails the test if the number of live wrapped objects differs
// from want after the test body.
func checkLive(t *testing.T) func() {
	t.Helper()
	before := wrap.Live()
	return func() {
		t.Helper()
		if got := wrap.Live(); got != before {
			t.Errorf("live objects = %d, want %d", got, before)
		}
	}
}

// give returns a reference for a simulated CEF call to hand over.
func give[T any](r *refcount.Ref[T]) unsafe.Pointer {
	return unsafe.Pointer(r.Clone().IntoRaw())
}

type fakeHost struct {
	mu          sync.Mutex
	resized     int
	hidden      []bool
	screenInfo  int
	invalidated []PaintElementType
	closed      []bool
}

type fakeBrowser struct {
	id   int32
	host *refcount.Ref[capi.BrowserHost]
}

var (
	fakeBrowserOnce sync.Once
	fakeBrowserFns  struct {
		isValid, getIdentifier, isSame, getHost uintptr
		closeBrowser, wasResized, wasHidden     uintptr
		notifyScreenInfoChanged, invalidate     uintptr
	}
)

func initFakeBrowser() {
	fakeBrowserOnce.Do(func() {
		fns := &fakeBrowserFns
		fns.isValid = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			_, ok := wrap.Recover[*fakeBrowser](self)
			return wrap.Bool(ok)
		})
		fns.getIdentifier = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			b, _ := wrap.Recover[*fakeBrowser](self)
			return b.id
		})
		fns.isSame = purego.NewCallback(func(_ purego.CDecl, self, that unsafe.Pointer) int32 {
			// The argument reference belongs to the callee.
			other := refcount.MustAdopt((*capi.Browser)(that))
			defer other.Release()
			a, _ := wrap.Recover[*fakeBrowser](self)
			b, _ := wrap.Recover[*fakeBrowser](that)
			return wrap.Bool(a == b)
		})
		fns.getHost = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			b, _ := wrap.Recover[*fakeBrowser](self)
			if b.host == nil {
				return 0
			}
			return uintptr(give(b.host))
		})
		fns.closeBrowser = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, force int32) {
			h, _ := wrap.Recover[*fakeHost](self)
			h.mu.Lock()
			h.closed = append(h.closed, force != 0)
			h.mu.Unlock()
		})
		fns.wasResized = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			h, _ := wrap.Recover[*fakeHost](self)
			h.mu.Lock()
			h.resized++
			h.mu.Unlock()
		})
		fns.wasHidden = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, hidden int32) {
			h, _ := wrap.Recover[*fakeHost](self)
			h.mu.Lock()
			h.hidden = append(h.hidden, hidden != 0)
			h.mu.Unlock()
		})
		fns.notifyScreenInfoChanged = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			h, _ := wrap.Recover[*fakeHost](self)
			h.mu.Lock()
			h.screenInfo++
			h.mu.Unlock()
		})
		fns.invalidate = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, typ int32) {
			h, _ := wrap.Recover[*fakeHost](self)
			h.mu.Lock()
			h.invalidated = append(h.invalidated, PaintElementType(typ))
			h.mu.Unlock()
		})
	})
}

func newFakeHost(h *fakeHost) *refcount.Ref[capi.BrowserHost] {
	initFakeBrowser()
	fns := &fakeBrowserFns
	return wrap.New(h, func(v *capi.BrowserHost) {
		v.CloseBrowser = fns.closeBrowser
		v.WasResized = fns.wasResized
		v.WasHidden = fns.wasHidden
		v.NotifyScreenInfoChanged = fns.notifyScreenInfoChanged
		v.Invalidate = fns.invalidate
	})
}

// newFakeBrowser returns a browser with the given identifier. If host is
// non-nil the browser takes ownership of it.
func newFakeBrowser(id int32, host *refcount.Ref[capi.BrowserHost]) *refcount.Ref[capi.Browser] {
	initFakeBrowser()
	fns := &fakeBrowserFns
	return wrap.New(&fakeBrowser{id: id, host: host}, func(v *capi.Browser) {
		v.IsValid = fns.isValid
		v.GetIdentifier = fns.getIdentifier
		v.IsSame = fns.isSame
		v.GetHost = fns.getHost
	})
}

// Dispose drops the browser's host reference.
func (b *fakeBrowser) Dispose() {
	b.host.Release()
}

type fakeCommandLine struct {
	mu       sync.Mutex
	readOnly bool
	switches map[string]string
	order    []string
	// userfree keeps returned value strings alive; the test side never
	// frees them.
	userfree []*cefstring.String
}

var (
	fakeCommandLineOnce sync.Once
	fakeCommandLineFns  struct {
		isReadOnly, hasSwitch, getSwitchValue uintptr
		appendSwitch, appendSwitchWithValue   uintptr
	}
)

func newFakeCommandLine(c *fakeCommandLine) *refcount.Ref[capi.CommandLine] {
	if c.switches == nil {
		c.switches = map[string]string{}
	}
	fakeCommandLineOnce.Do(func() {
		fns := &fakeCommandLineFns
		fns.isReadOnly = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			c, _ := wrap.Recover[*fakeCommandLine](self)
			return wrap.Bool(c.readOnly)
		})
		fns.hasSwitch = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, name *capi.String) int32 {
			c, _ := wrap.Recover[*fakeCommandLine](self)
			c.mu.Lock()
			defer c.mu.Unlock()
			_, ok := c.switches[cefstring.Decode(name)]
			return wrap.Bool(ok)
		})
		fns.getSwitchValue = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, name *capi.String) uintptr {
			c, _ := wrap.Recover[*fakeCommandLine](self)
			c.mu.Lock()
			defer c.mu.Unlock()
			v, ok := c.switches[cefstring.Decode(name)]
			if !ok {
				return 0
			}
			s, err := cefstring.New(v)
			if err != nil {
				return 0
			}
			c.userfree = append(c.userfree, s)
			return uintptr(unsafe.Pointer(s.Raw()))
		})
		fns.appendSwitch = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, name *capi.String) {
			c, _ := wrap.Recover[*fakeCommandLine](self)
			c.mu.Lock()
			defer c.mu.Unlock()
			n := cefstring.Decode(name)
			c.switches[n] = ""
			c.order = append(c.order, n)
		})
		fns.appendSwitchWithValue = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, name, value *capi.String) {
			c, _ := wrap.Recover[*fakeCommandLine](self)
			c.mu.Lock()
			defer c.mu.Unlock()
			n := cefstring.Decode(name)
			c.switches[n] = cefstring.Decode(value)
			c.order = append(c.order, n)
		})
	})
	fns := &fakeCommandLineFns
	return wrap.New(c, func(v *capi.CommandLine) {
		v.IsReadOnly = fns.isReadOnly
		v.HasSwitch = fns.hasSwitch
		v.GetSwitchValue = fns.getSwitchValue
		v.AppendSwitch = fns.appendSwitch
		v.AppendSwitchWithValue = fns.appendSwitchWithValue
	})
}

func (c *fakeCommandLine) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.userfree {
		s.Free()
	}
	c.userfree = nil
}

type fakeURLRequest struct {
	status   URLRequestStatus
	err      ErrorCode
	cached   bool
	canceled int
	response *refcount.Ref[capi.Opaque]
}

var (
	fakeURLRequestOnce sync.Once
	fakeURLRequestFns  struct {
		getStatus, getError, getResponse, wasCached, cancel uintptr
		cont, authCancel                                    uintptr
	}
)

func initFakeURLRequest() {
	fakeURLRequestOnce.Do(func() {
		fns := &fakeURLRequestFns
		fns.getStatus = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			r, _ := wrap.Recover[*fakeURLRequest](self)
			return int32(r.status)
		})
		fns.getError = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			r, _ := wrap.Recover[*fakeURLRequest](self)
			return int32(r.err)
		})
		fns.getResponse = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) uintptr {
			r, _ := wrap.Recover[*fakeURLRequest](self)
			if r.response == nil {
				return 0
			}
			return uintptr(give(r.response))
		})
		fns.wasCached = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			r, _ := wrap.Recover[*fakeURLRequest](self)
			return wrap.Bool(r.cached)
		})
		fns.cancel = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			r, _ := wrap.Recover[*fakeURLRequest](self)
			r.canceled++
		})
		fns.cont = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer, user, pass *capi.String) {
			a, _ := wrap.Recover[*fakeAuth](self)
			a.user, a.pass = cefstring.Decode(user), cefstring.Decode(pass)
			a.continued++
		})
		fns.authCancel = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			a, _ := wrap.Recover[*fakeAuth](self)
			a.canceled++
		})
	})
}

func newFakeURLRequest(r *fakeURLRequest) *refcount.Ref[capi.URLRequest] {
	initFakeURLRequest()
	fns := &fakeURLRequestFns
	return wrap.New(r, func(v *capi.URLRequest) {
		v.GetRequestStatus = fns.getStatus
		v.GetRequestError = fns.getError
		v.GetResponse = fns.getResponse
		v.ResponseWasCached = fns.wasCached
		v.Cancel = fns.cancel
	})
}

func (r *fakeURLRequest) Dispose() {
	r.response.Release()
}

type fakeAuth struct {
	user, pass string
	continued  int
	canceled   int
}

func newFakeAuth(a *fakeAuth) *refcount.Ref[capi.AuthCallback] {
	initFakeURLRequest()
	fns := &fakeURLRequestFns
	return wrap.New(a, func(v *capi.AuthCallback) {
		v.Cont = fns.cont
		v.Cancel = fns.authCancel
	})
}

// newOpaque returns a ref-counted object with no slots, standing in for
// frames, requests and process messages.
func newOpaque() *Handle {
	return wrap.New[capi.Opaque](struct{}{}, nil)
}
